// Package notify доставляет результаты записи действий наружу.
// Ядро вызывает sink fire-and-forget: доставка (лог, Telegram, что угодно)
// не влияет на сам RecordAction.
package notify

import (
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reputation/internal/features/reputation"
)

// LogSink пишет результаты в лог. Базовый sink для разработки и аудита.
type LogSink struct{}

// NewLogSink создаёт лог-sink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Notify логирует результат записи действия.
func (s *LogSink) Notify(result *reputation.RecordResult) {
	fields := log.Fields{
		"user_id":  result.UserID,
		"kind":     result.Kind,
		"accepted": result.Accepted,
	}
	if result.Assessment != nil {
		fields["risk"] = result.Assessment.RiskLevel.String()
	}
	if !result.Accepted {
		if result.Quarantined {
			fields["quarantined"] = true
		}
		log.WithFields(fields).Warn("Действие отклонено")
		return
	}
	fields["points"] = result.PointsAwarded
	fields["total"] = result.TotalPoints
	if result.LevelUp != nil {
		fields["new_level"] = result.LevelUp.NewLevel
	}
	log.WithFields(fields).Info("Действие записано")
}

// Fanout рассылает результат нескольким sink'ам.
type Fanout []reputation.Sink

// Notify передаёт результат каждому sink'у по очереди.
func (f Fanout) Notify(result *reputation.RecordResult) {
	for _, sink := range f {
		sink.Notify(result)
	}
}
