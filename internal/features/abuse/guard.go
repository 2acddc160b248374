// Package abuse — guard.go содержит сами эвристики.
// Guard смотрит на скользящее окно недавних попыток пользователя
// и решает: пропустить, пометить на ручную проверку или заблокировать.
//
// Окно читается из провайдера истории и может слегка отставать —
// это эвристика, а не жёсткая граница безопасности. Единственное
// строгое правило: любая внутренняя ошибка оценки закрывает дверь
// (fail closed), а не пропускает действие молча.
package abuse

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reputation/internal/config"
	"serotonyl.ru/reputation/internal/features/scoring"
)

// HistoryProvider отдаёт недавние попытки действий пользователя.
// Порядок записей не важен — guard сортирует сам.
type HistoryProvider interface {
	RecentActions(ctx context.Context, userID string, since time.Time) ([]*scoring.ActionRecord, error)
}

// Guard оценивает предложенное действие по недавней истории.
type Guard struct {
	cfg     *config.Config
	history HistoryProvider
	now     func() time.Time
}

// NewGuard создаёт guard с заданной конфигурацией и провайдером истории.
// Часы инжектируются явно (nil — time.Now), чтобы окна были управляемы в тестах.
func NewGuard(cfg *config.Config, history HistoryProvider, now func() time.Time) *Guard {
	if now == nil {
		now = time.Now
	}
	return &Guard{cfg: cfg, history: history, now: now}
}

// Evaluate оценивает предложенное действие.
// Никогда не возвращает ошибку на плохих данных — только структурированный
// Assessment. Ошибка получения истории превращается в отказ с riskLevel
// critical (fail closed).
func (g *Guard) Evaluate(ctx context.Context, userID string, kind scoring.ActionKind, meta scoring.Metadata) *Assessment {
	a := &Assessment{IsValid: true}

	// Проверка 1: структурная валидность. Провал — дальше не считаем.
	if userID == "" {
		a.IsValid = false
		a.Issues = append(a.Issues, "пустой идентификатор пользователя")
	}
	if !kind.Known() {
		a.IsValid = false
		a.Issues = append(a.Issues, fmt.Sprintf("неизвестный вид действия %q", kind))
	}
	if !a.IsValid {
		a.Confidence = 100
		a.RiskLevel = RiskHigh
		a.Recommended = ActionBlock
		return a
	}

	now := g.now()
	records, err := g.history.RecentActions(ctx, userID, now.Add(-g.cfg.GuardWindow))
	if err != nil {
		// Fail closed: не смогли прочитать историю — не пропускаем
		log.WithError(err).WithField("user_id", userID).Error("Не удалось получить историю действий")
		a.IsValid = false
		a.Issues = append(a.Issues, "не удалось получить историю действий")
		a.Confidence = 100
		a.RiskLevel = RiskCritical
		a.Recommended = ActionBlock
		return a
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	hourCount := len(records)
	sameKind := 0
	hourPoints := 0
	for _, r := range records {
		if r.Kind == kind {
			sameKind++
		}
		hourPoints += r.Points
	}

	// Проверка 2: флуд одинаковыми действиями
	if sameKind >= g.cfg.GuardRepeatThreshold {
		a.Confidence += 30
		a.Issues = append(a.Issues, fmt.Sprintf("%d действий %q за последний час", sameKind, kind))
	}

	// Проверка 3: нечеловеческая скорость. Нулевой средний интервал
	// (все записи с одинаковым временем) — самая экстремальная скорость,
	// он тоже срабатывает.
	if hourCount >= g.cfg.GuardVelocityMinActions && hourCount >= 2 {
		if gap := meanGap(records); gap < g.cfg.GuardVelocityMeanGap {
			a.Confidence += 40
			a.Issues = append(a.Issues, fmt.Sprintf("нечеловеческая скорость: средний интервал %v", gap.Round(time.Millisecond)))
		}
	}

	// Проверка 4: дубликаты метаданных
	if dup := g.countDuplicates(records, kind, meta, now); dup >= g.cfg.GuardDuplicateThreshold {
		a.Confidence += 35
		a.Issues = append(a.Issues, fmt.Sprintf("%d идентичных метаданных за %v", dup, g.cfg.GuardDuplicateWindow))
	}

	// Проверка 5: интенсивная активность в «глухие» часы
	hour := now.Hour()
	if hourCount > g.cfg.GuardOffHoursMinActions && (hour < g.cfg.GuardDayHourFrom || hour > g.cfg.GuardDayHourTo) {
		a.Confidence += 20
		a.Issues = append(a.Issues, fmt.Sprintf("высокая активность в %d часов", hour))
	}

	// Проверка 6: жёсткие часовые лимиты — независимо от уверенности
	hardCap := false
	if hourCount >= g.cfg.GuardHourlyActionCap {
		hardCap = true
		a.IsValid = false
		a.Issues = append(a.Issues, fmt.Sprintf("часовой лимит действий исчерпан (%d)", hourCount))
	}
	if hourPoints >= g.cfg.GuardHourlyPointCap {
		hardCap = true
		a.IsValid = false
		a.Issues = append(a.Issues, fmt.Sprintf("часовой лимит баллов исчерпан (%d)", hourPoints))
	}

	// Проверка 7: форма метаданных
	shapeIssues := ValidateMetadata(kind, meta)
	if len(shapeIssues) > 0 {
		a.IsValid = false
		a.Issues = append(a.Issues, shapeIssues...)
	}

	// Агрегация
	if a.Confidence > 100 {
		a.Confidence = 100
	}
	switch {
	case len(shapeIssues) > 0 && a.Confidence >= 80:
		// Структурно невалидное действие + высокая уверенность в фроде
		a.RiskLevel = RiskCritical
	case a.Confidence >= 80 || hardCap || len(shapeIssues) > 0:
		a.RiskLevel = RiskHigh
	case a.Confidence >= 50:
		a.RiskLevel = RiskMedium
	default:
		a.RiskLevel = RiskLow
	}
	switch {
	case !a.IsValid || a.Confidence >= 80:
		a.Recommended = ActionBlock
	case a.Confidence >= 50:
		a.Recommended = ActionReview
	default:
		a.Recommended = ActionAllow
	}

	return a
}

// meanGap возвращает средний интервал между отсортированными записями.
func meanGap(records []*scoring.ActionRecord) time.Duration {
	if len(records) < 2 {
		return 0
	}
	total := records[len(records)-1].CreatedAt.Sub(records[0].CreatedAt)
	return total / time.Duration(len(records)-1)
}

// countDuplicates считает записи того же вида за окно дубликатов,
// чьи сериализованные метаданные байт-в-байт совпадают с предложенными.
// Просматриваются не более GuardDuplicateScanLimit самых свежих записей.
func (g *Guard) countDuplicates(records []*scoring.ActionRecord, kind scoring.ActionKind, meta scoring.Metadata, now time.Time) int {
	proposed := meta.Serialize()
	cutoff := now.Add(-g.cfg.GuardDuplicateWindow)

	scanned := 0
	count := 0
	// records отсортированы по возрастанию — идём с конца, от свежих к старым
	for i := len(records) - 1; i >= 0 && scanned < g.cfg.GuardDuplicateScanLimit; i-- {
		r := records[i]
		if r.Kind != kind || r.CreatedAt.Before(cutoff) {
			continue
		}
		scanned++
		if r.Metadata.Serialize() == proposed {
			count++
		}
	}
	return count
}
