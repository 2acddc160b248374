// Package progression — levels.go содержит статическую таблицу уровней.
// Уровни — конфигурация, они не хранятся per-user: уровень всегда
// пересчитывается из суммы баллов через кривую.
package progression

// Level описывает один уровень прогрессии.
type Level struct {
	ID             int      // Номер уровня (1..MaxLevel)
	PointsRequired int      // Минимум баллов для достижения (строго возрастает)
	Title          string   // Название уровня
	Benefits       []string // Что даёт уровень (для отображения)
	Unlocks        []string // Идентификаторы фич-флагов, открываемых уровнем
}

// DefaultLevels строит эталонную таблицу уровней 1..MaxLevel.
// Пороги берутся из кривой, чтобы таблица и формула не разъезжались.
func DefaultLevels(curve *Curve) []Level {
	titles := []string{
		"Новичок", "Участник", "Активист", "Знаток", "Наставник",
		"Эксперт", "Амбассадор", "Лидер мнений", "Визионер", "Легенда",
	}
	benefits := [][]string{
		{"Базовый профиль"},
		{"Комментарии без премодерации"},
		{"Создание сообществ"},
		{"Кастомная обложка профиля"},
		{"Значок наставника", "Приоритет в поиске"},
		{"Закреплённые публикации"},
		{"Приглашения без лимита"},
		{"Ранний доступ к новым фичам"},
		{"Персональная страница достижений"},
		{"Зал славы"},
	}
	unlocks := [][]string{
		{"profile.basic"},
		{"comments.unmoderated"},
		{"groups.create"},
		{"profile.cover"},
		{"badge.mentor", "search.priority"},
		{"posts.pin"},
		{"referrals.unlimited"},
		{"features.early-access"},
		{"profile.achievements"},
		{"hall-of-fame"},
	}

	levels := make([]Level, 0, curve.MaxLevel())
	for id := 1; id <= curve.MaxLevel(); id++ {
		levels = append(levels, Level{
			ID:             id,
			PointsRequired: curve.PointsFor(id),
			Title:          titles[id-1],
			Benefits:       benefits[id-1],
			Unlocks:        unlocks[id-1],
		})
	}
	return levels
}
