// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежечасную обрезку журнала действий
// и ежедневную сводку безопасности для операторов.
//
// Задачи — вспомогательные: они не координируются с текущими вызовами
// RecordAction и спокойно переживают короткое окно устаревших данных.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reputation/internal/common"
	"serotonyl.ru/reputation/internal/config"
	"serotonyl.ru/reputation/internal/features/reputation"
)

// Janitor обрезает журнал действий по ретеншену.
type Janitor interface {
	TrimActionLog(ctx context.Context, cutoff time.Time) (int64, error)
}

// Reporter собирает сводку по журналу.
type Reporter interface {
	Summary(ctx context.Context, since time.Time) (*reputation.SecuritySummary, error)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	janitor  Janitor
	reporter Reporter
	cfg      *config.Config
}

// NewScheduler создаёт планировщик задач в часовом поясе приложения.
func NewScheduler(janitor Janitor, reporter Reporter, cfg *config.Config) *Scheduler {
	loc := common.LoadLocation(cfg.AppTimezone)
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		janitor:  janitor,
		reporter: reporter,
		cfg:      cfg,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Ежечасная обрезка журнала: окно guard'а ограничено ретеншеном
	s.cron.AddFunc("0 * * * *", func() {
		cutoff := time.Now().Add(-s.cfg.GuardRetention)
		trimmed, err := s.janitor.TrimActionLog(ctx, cutoff)
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка обрезки журнала действий")
			return
		}
		if trimmed > 0 {
			log.WithField("trimmed", trimmed).Debug("[CRON] Журнал действий обрезан")
		}
	})

	// Ежедневная сводка безопасности в 06:00
	s.cron.AddFunc("0 6 * * *", func() {
		since := time.Now().Add(-24 * time.Hour)
		summary, err := s.reporter.Summary(ctx, since)
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка сбора сводки безопасности")
			return
		}
		log.WithFields(log.Fields{
			"accepted":         summary.AcceptedCount,
			"rejected":         summary.RejectedCount,
			"rejected_by_kind": summary.RejectedByKind,
		}).Info("[CRON] Суточная сводка безопасности")
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и дожидается завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
