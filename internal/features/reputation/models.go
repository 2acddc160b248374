// Package reputation — фасад ядра: оркестрирует guard, таблицу стоимости,
// леджер и движок прогрессии.
// models.go описывает снимок репутации и результат записи действия.
package reputation

import (
	"time"

	"serotonyl.ru/reputation/internal/features/abuse"
	"serotonyl.ru/reputation/internal/features/progression"
	"serotonyl.ru/reputation/internal/features/scoring"
)

// UserReputation — снимок репутации пользователя.
// Сумма баллов монотонно не убывает; уровень — производная величина,
// он ВСЕГДА пересчитывается из суммы через кривую и не является
// самостоятельной истиной. Набор значков только растёт.
type UserReputation struct {
	UserID        string    `db:"user_id"`
	TotalPoints   int       `db:"total_points"`
	Level         int       `db:"level"`
	Badges        []string  `db:"badges"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// RecordResult — итог одного вызова RecordAction.
// Фасад ВСЕГДА возвращает результат для ожидаемых проблем со входом;
// ошибка возвращается только при недоступности коллабораторов.
type RecordResult struct {
	UserID        string                      // Чьё действие
	Kind          scoring.ActionKind          // Вид действия
	Accepted      bool                        // Действие принято и баллы начислены
	PointsAwarded int                         // Сколько начислено (0 при отказе)
	TotalPoints   int                         // Сумма баллов после вызова
	Level         int                         // Уровень после вызова
	Badges        []string                    // Значки после вызова
	Assessment    *abuse.Assessment           // Оценка риска этого действия
	LevelUp       *progression.LevelUpEvent   // Событие перехода уровня (nil, если нет)
	Quarantined   bool                        // Пользователь попал в карантин этим вызовом
}

// SecuritySummary — суточная сводка для операторов.
type SecuritySummary struct {
	Since          time.Time
	AcceptedCount  int
	RejectedCount  int
	RejectedByKind map[scoring.ActionKind]int
}
