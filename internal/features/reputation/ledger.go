// Package reputation — ledger.go описывает интерфейсы коллабораторов фасада.
package reputation

import (
	"context"
	"time"

	"serotonyl.ru/reputation/internal/features/scoring"
)

// Ledger — хранилище очков и журнала попыток.
// Продакшен-реализация — Repository (PostgreSQL), для тестов и
// одноинстансных развёртываний есть MemoryLedger.
type Ledger interface {
	// RecentActions возвращает попытки пользователя начиная с since.
	// Порядок не гарантируется — вызывающий сортирует сам.
	RecentActions(ctx context.Context, userID string, since time.Time) ([]*scoring.ActionRecord, error)

	// LogAction записывает одну попытку (и принятую, и отклонённую).
	LogAction(ctx context.Context, rec *scoring.ActionRecord) error

	// AddPoints атомарно прибавляет баллы и возвращает (старую, новую) сумму.
	// Атомарность — ЖЁСТКОЕ требование корректности: наивное
	// «прочитал-прибавил-записал» теряет обновления при гонке.
	AddPoints(ctx context.Context, userID string, delta int) (oldTotal, newTotal int, err error)

	// Reputation возвращает снимок репутации или (nil, nil), если записи нет.
	Reputation(ctx context.Context, userID string) (*UserReputation, error)

	// PutReputation сохраняет снимок репутации.
	PutReputation(ctx context.Context, rep *UserReputation) error
}

// QuarantineStore отмечает пользователей, исключённых из начислений.
// Реализуется админ-фичей; снимает карантин только оператор.
type QuarantineStore interface {
	IsQuarantined(ctx context.Context, userID string) (bool, error)
	Quarantine(ctx context.Context, userID, reason string) error
}

// Sink получает результат каждого вызова RecordAction.
// Фасад вызывает его fire-and-forget и не зависит от исхода доставки.
type Sink interface {
	Notify(result *RecordResult)
}
