// Package metrics объявляет счётчики Prometheus для операторов.
// Счётчики регистрируются в глобальном реестре через promauto
// и отдаются на METRICS_LISTEN_ADDR.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionsTotal — попытки действий по виду и исходу (accepted/rejected/failed).
	ActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reputation",
		Name:      "actions_total",
		Help:      "Попытки действий по виду и исходу",
	}, []string{"kind", "outcome"})

	// RiskTotal — распределение оценок по уровням риска.
	RiskTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reputation",
		Name:      "risk_assessments_total",
		Help:      "Оценки риска по уровням",
	}, []string{"level"})

	// LevelUpsTotal — количество переходов уровней.
	LevelUpsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reputation",
		Name:      "level_ups_total",
		Help:      "События повышения уровня",
	})

	// QuarantinesTotal — сколько пользователей закарантинено.
	QuarantinesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reputation",
		Name:      "quarantines_total",
		Help:      "Пользователи, отправленные в карантин",
	})
)
