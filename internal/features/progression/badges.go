// Package progression — badges.go содержит таблицу значков и логику их выдачи.
// Значки монотонны: набор может только расти, обычной игрой значок
// не отбирается.
package progression

import "serotonyl.ru/reputation/internal/features/scoring"

// Badge описывает один значок.
// Значок выдаётся либо при пересечении порога баллов (Threshold > 0),
// либо конкретным действием (Trigger != ""), либо и тем и другим условием
// по отдельности.
type Badge struct {
	ID        string             // Идентификатор значка
	Title     string             // Название для отображения
	Threshold int                // Порог по сумме баллов (0 — не порог)
	Trigger   scoring.ActionKind // Действие-триггер ("" — нет)
}

// DefaultBadges — эталонная таблица значков.
var DefaultBadges = []Badge{
	{ID: "first-steps", Title: "Первые шаги", Threshold: 100},
	{ID: "rising-star", Title: "Восходящая звезда", Threshold: 500},
	{ID: "thousand-club", Title: "Клуб тысячи", Threshold: 1000},
	{ID: "veteran", Title: "Ветеран", Threshold: 3200},
	{ID: "community-founder", Title: "Основатель сообщества", Trigger: scoring.ActionCreateGroup},
	{ID: "connector", Title: "Коннектор", Trigger: scoring.ActionReferralApproved},
	{ID: "all-set", Title: "Профиль заполнен", Trigger: scoring.ActionProfileComplete},
}

// BadgeSet выдаёт значки по таблице.
type BadgeSet struct {
	badges []Badge
}

// NewBadgeSet создаёт выдачу значков по заданной таблице.
func NewBadgeSet(badges []Badge) *BadgeSet {
	return &BadgeSet{badges: badges}
}

// Earned возвращает объединение уже заработанных значков с теми,
// что положены за новую сумму баллов и за само действие.
// Порядок: сначала прежние значки, потом новые в порядке таблицы.
// Повторное выполнение того же действия набор не меняет.
func (s *BadgeSet) Earned(current []string, totalPoints int, kind scoring.ActionKind) []string {
	have := make(map[string]bool, len(current))
	result := make([]string, 0, len(current))
	for _, id := range current {
		if have[id] {
			continue
		}
		have[id] = true
		result = append(result, id)
	}

	for _, b := range s.badges {
		if have[b.ID] {
			continue
		}
		earned := (b.Threshold > 0 && totalPoints >= b.Threshold) ||
			(b.Trigger != "" && b.Trigger == kind)
		if earned {
			have[b.ID] = true
			result = append(result, b.ID)
		}
	}
	return result
}
