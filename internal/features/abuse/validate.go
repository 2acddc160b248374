// Package abuse — validate.go проверяет форму метаданных по виду действия.
// Вместо цепочки if по строковым литералам — таблица диспетчеризации:
// каждый вид действия объявляет свои обязательные поля.
package abuse

import (
	"fmt"
	"sort"
	"strings"

	"serotonyl.ru/reputation/internal/features/scoring"
)

// requiredFields — обязательные поля метаданных по видам действий.
// Виды, которых нет в таблице, обязательных полей не имеют.
var requiredFields = map[scoring.ActionKind][]string{
	scoring.ActionContentCreate:    {"content_id"},
	scoring.ActionContentLike:      {"content_id", "author_id"},
	scoring.ActionComment:          {"content_id"},
	scoring.ActionShare:            {"content_id"},
	scoring.ActionJoinGroup:        {"group_id"},
	scoring.ActionAttendEvent:      {"event_id"},
	scoring.ActionReferralApproved: {"referral_id"},
}

// ValidateMetadata проверяет форму метаданных для вида действия.
// Возвращает список находок (пустой — всё в порядке).
//
// Правила:
//   - каждое обязательное поле присутствует;
//   - любое поле с суффиксом "_id" — непустая строка.
func ValidateMetadata(kind scoring.ActionKind, meta scoring.Metadata) []string {
	var issues []string

	for _, field := range requiredFields[kind] {
		if _, ok := meta[field]; !ok {
			issues = append(issues, fmt.Sprintf("отсутствует обязательное поле метаданных %q", field))
		}
	}

	// Ключи сортируем, чтобы порядок находок был детерминированным
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !strings.HasSuffix(key, "_id") {
			continue
		}
		s, ok := meta[key].(string)
		if !ok || s == "" {
			issues = append(issues, fmt.Sprintf("поле %q должно быть непустой строкой", key))
		}
	}

	return issues
}
