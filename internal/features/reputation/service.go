// Package reputation — service.go содержит фасад ядра.
// Единственная точка входа: RecordAction. Порядок шагов:
// карантин → guard → стоимость → атомарное начисление → значки →
// прогрессия → сохранение снимка → уведомление.
package reputation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reputation/internal/common"
	"serotonyl.ru/reputation/internal/features/abuse"
	"serotonyl.ru/reputation/internal/features/progression"
	"serotonyl.ru/reputation/internal/features/scoring"
	"serotonyl.ru/reputation/internal/metrics"
)

// Service — фасад репутации. Явно сконструированный экземпляр с
// инжектированными коллабораторами: никаких глобальных синглтонов,
// несколько экземпляров (на тест, на тенант) не делят скрытое состояние.
type Service struct {
	ledger     Ledger
	quarantine QuarantineStore
	guard      *abuse.Guard
	table      scoring.Table
	curve      *progression.Curve
	engine     *progression.Engine
	badges     *progression.BadgeSet
	sink       Sink
	now        func() time.Time

	// Пер-пользовательские замки: шаги начисления для ОДНОГО пользователя
	// выполняются строго последовательно, разные пользователи — параллельно.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService создаёт фасад репутации.
// sink может быть nil (без уведомлений), now — nil (time.Now).
func NewService(
	ledger Ledger,
	quarantine QuarantineStore,
	guard *abuse.Guard,
	table scoring.Table,
	curve *progression.Curve,
	engine *progression.Engine,
	badges *progression.BadgeSet,
	sink Sink,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		ledger:     ledger,
		quarantine: quarantine,
		guard:      guard,
		table:      table,
		curve:      curve,
		engine:     engine,
		badges:     badges,
		sink:       sink,
		now:        now,
		locks:      make(map[string]*sync.Mutex),
	}
}

// RecordAction записывает действие с базовой стоимостью из таблицы.
func (s *Service) RecordAction(ctx context.Context, userID string, kind scoring.ActionKind, meta scoring.Metadata) (*RecordResult, error) {
	return s.record(ctx, userID, kind, meta, nil)
}

// RecordActionWithPoints записывает действие с явной стоимостью.
// Используется для шагов онбординга, у которых нет базовой стоимости.
func (s *Service) RecordActionWithPoints(ctx context.Context, userID string, kind scoring.ActionKind, meta scoring.Metadata, points int) (*RecordResult, error) {
	return s.record(ctx, userID, kind, meta, &points)
}

// record — общий путь записи действия.
//
// Для ожидаемых проблем со входом (плохой userID, неизвестный вид,
// кривые метаданные, абуз) ВСЕГДА возвращается результат с Accepted=false
// и nil-ошибкой. Ошибка возвращается только при недоступности
// коллабораторов — это отдельный исход, чтобы вызывающий мог ретраить
// или алертить, не путая его с отказом по абузу.
func (s *Service) record(ctx context.Context, userID string, kind scoring.ActionKind, meta scoring.Metadata, override *int) (*RecordResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	result := &RecordResult{UserID: userID, Kind: kind}

	// Карантин: закарантиненный пользователь исключён из начислений,
	// пока оператор не снимет флаг.
	if userID != "" {
		quarantined, err := s.quarantine.IsQuarantined(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: проверка карантина: %v", common.ErrLedgerUnavailable, err)
		}
		if quarantined {
			result.Assessment = &abuse.Assessment{
				IsValid:     false,
				Issues:      []string{common.ErrUserQuarantined.Error()},
				Confidence:  100,
				RiskLevel:   abuse.RiskHigh,
				Recommended: abuse.ActionBlock,
			}
			s.finishRejected(ctx, result, meta)
			return result, nil
		}
	}

	// Оценка риска по недавней истории
	result.Assessment = s.guard.Evaluate(ctx, userID, kind, meta)
	metrics.RiskTotal.WithLabelValues(result.Assessment.RiskLevel.String()).Inc()

	// Стоимость действия: явное переопределение побеждает таблицу
	points := 0
	if override != nil {
		if *override < 0 {
			result.Assessment.IsValid = false
			result.Assessment.Issues = append(result.Assessment.Issues, common.ErrInvalidPoints.Error())
			result.Assessment.Recommended = abuse.ActionBlock
		}
		points = *override
	} else if base, ok := s.table.PointsFor(kind); ok {
		points = base
	}

	if result.Assessment.Blocked() {
		// Блок — сигнал закарантинить пользователя до ручного разбора
		if userID != "" && result.Assessment.Recommended == abuse.ActionBlock && result.Assessment.RiskLevel >= abuse.RiskHigh {
			reason := "абуз-эвристики"
			if len(result.Assessment.Issues) > 0 {
				reason = result.Assessment.Issues[0]
			}
			if err := s.quarantine.Quarantine(ctx, userID, reason); err != nil {
				log.WithError(err).WithField("user_id", userID).Error("Не удалось закарантинить пользователя")
			} else {
				result.Quarantined = true
				metrics.QuarantinesTotal.Inc()
			}
		}
		s.finishRejected(ctx, result, meta)
		return result, nil
	}

	// Атомарное начисление: одна операция возвращает старую и новую сумму
	oldTotal, newTotal, err := s.ledger.AddPoints(ctx, userID, points)
	if err != nil {
		metrics.ActionsTotal.WithLabelValues(string(kind), "failed").Inc()
		return nil, fmt.Errorf("%w: %v", common.ErrLedgerUnavailable, err)
	}

	// Журналируем принятую попытку. Ошибка журнала не откатывает баллы:
	// окно истории — эвристика и переживает пропуск записи.
	s.logAttempt(ctx, userID, kind, meta, points, true)

	rep, err := s.ledger.Reputation(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: чтение репутации: %v", common.ErrLedgerUnavailable, err)
	}
	if rep == nil {
		rep = &UserReputation{UserID: userID}
	}

	// Значки — только объединение, заработанное не отбирается
	rep.Badges = s.badges.Earned(rep.Badges, newTotal, kind)

	// Переход уровня (возможен прыжок через несколько границ сразу)
	result.LevelUp = s.engine.Evaluate(userID, oldTotal, newTotal)
	if result.LevelUp != nil {
		metrics.LevelUpsTotal.Inc()
	}

	rep.TotalPoints = newTotal
	rep.Level = s.curve.LevelFor(newTotal)
	rep.LastUpdatedAt = s.now()
	if err := s.ledger.PutReputation(ctx, rep); err != nil {
		// Баллы уже в леджере; снимок догонит на следующем действии
		return nil, fmt.Errorf("%w: сохранение репутации: %v", common.ErrLedgerUnavailable, err)
	}

	result.Accepted = true
	result.PointsAwarded = points
	result.TotalPoints = newTotal
	result.Level = rep.Level
	result.Badges = rep.Badges

	outcome := "accepted"
	if result.Assessment.Recommended == abuse.ActionReview {
		outcome = "review"
	}
	metrics.ActionsTotal.WithLabelValues(string(kind), outcome).Inc()

	s.notify(result)
	return result, nil
}

// Reputation возвращает текущий снимок репутации пользователя.
func (s *Service) Reputation(ctx context.Context, userID string) (*UserReputation, error) {
	rep, err := s.ledger.Reputation(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLedgerUnavailable, err)
	}
	if rep == nil {
		return nil, common.ErrReputationNotFound
	}
	return rep, nil
}

// finishRejected журналирует отклонённую попытку, считает метрики
// и уведомляет sink.
func (s *Service) finishRejected(ctx context.Context, result *RecordResult, meta scoring.Metadata) {
	s.logAttempt(ctx, result.UserID, result.Kind, meta, 0, false)
	metrics.ActionsTotal.WithLabelValues(string(result.Kind), "rejected").Inc()
	s.notify(result)
}

// logAttempt пишет попытку в журнал (best-effort).
func (s *Service) logAttempt(ctx context.Context, userID string, kind scoring.ActionKind, meta scoring.Metadata, points int, accepted bool) {
	rec := &scoring.ActionRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Points:    points,
		Metadata:  meta,
		Accepted:  accepted,
		CreatedAt: s.now(),
	}
	if err := s.ledger.LogAction(ctx, rec); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Не удалось записать попытку в журнал")
	}
}

// notify отдаёт результат sink'у fire-and-forget.
func (s *Service) notify(result *RecordResult) {
	if s.sink == nil {
		return
	}
	go s.sink.Notify(result)
}

// lockUser берёт замок конкретного пользователя.
func (s *Service) lockUser(userID string) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[userID] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
