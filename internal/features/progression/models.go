// Package progression — models.go описывает событие перехода уровня.
package progression

// LevelUpEvent — событие повышения уровня.
// Эфемерно: создаётся, отдаётся вызывающему и забывается,
// само ядро его никуда не сохраняет.
type LevelUpEvent struct {
	UserID           string   // Чей уровень вырос
	OldLevel         int      // Уровень до начисления
	NewLevel         int      // Уровень после (всегда > OldLevel)
	PointsEarned     int      // Дельта баллов, вызвавшая переход
	TotalPoints      int      // Итоговая сумма баллов
	UnlockedFeatures []string // Фич-флаги всех пройденных уровней (OldLevel, NewLevel]
}
