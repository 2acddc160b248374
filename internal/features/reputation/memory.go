// Package reputation — memory.go содержит леджер в памяти.
// Используется в тестах и в одноинстансных развёртываниях без PostgreSQL.
// При горизонтальном масштабировании окна истории у инстансов разъедутся —
// для нескольких инстансов нужен Repository поверх общей базы.
package reputation

import (
	"context"
	"sync"
	"time"

	"serotonyl.ru/reputation/internal/features/scoring"
)

// MemoryLedger — потокобезопасный леджер в памяти.
type MemoryLedger struct {
	mu      sync.Mutex
	actions map[string][]*scoring.ActionRecord
	reps    map[string]*UserReputation
	totals  map[string]int
}

// NewMemoryLedger создаёт пустой леджер в памяти.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		actions: make(map[string][]*scoring.ActionRecord),
		reps:    make(map[string]*UserReputation),
		totals:  make(map[string]int),
	}
}

// RecentActions возвращает попытки пользователя начиная с since.
func (l *MemoryLedger) RecentActions(_ context.Context, userID string, since time.Time) ([]*scoring.ActionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var recent []*scoring.ActionRecord
	for _, rec := range l.actions[userID] {
		if !rec.CreatedAt.Before(since) {
			recent = append(recent, rec)
		}
	}
	return recent, nil
}

// LogAction добавляет попытку в журнал.
func (l *MemoryLedger) LogAction(_ context.Context, rec *scoring.ActionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actions[rec.UserID] = append(l.actions[rec.UserID], rec)
	return nil
}

// AddPoints атомарно прибавляет баллы под мьютексом леджера.
func (l *MemoryLedger) AddPoints(_ context.Context, userID string, delta int) (int, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	old := l.totals[userID]
	l.totals[userID] = old + delta
	return old, old + delta, nil
}

// Reputation возвращает копию снимка репутации или (nil, nil).
func (l *MemoryLedger) Reputation(_ context.Context, userID string) (*UserReputation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rep, ok := l.reps[userID]
	if !ok {
		return nil, nil
	}
	cp := *rep
	cp.Badges = append([]string(nil), rep.Badges...)
	return &cp, nil
}

// PutReputation сохраняет копию снимка.
func (l *MemoryLedger) PutReputation(_ context.Context, rep *UserReputation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cp := *rep
	cp.Badges = append([]string(nil), rep.Badges...)
	l.reps[rep.UserID] = &cp
	return nil
}

// Evict выбрасывает из журнала записи старше cutoff.
// Аналог TrimActionLog у Repository; вызывается кроном.
func (l *MemoryLedger) Evict(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for userID, records := range l.actions {
		var recent []*scoring.ActionRecord
		for _, rec := range records {
			if rec.CreatedAt.After(cutoff) {
				recent = append(recent, rec)
			}
		}
		evicted += len(records) - len(recent)
		if len(recent) == 0 {
			delete(l.actions, userID)
		} else {
			l.actions[userID] = recent
		}
	}
	return evicted
}
