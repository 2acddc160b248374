// Package scoring — table.go содержит таблицу базовой стоимости действий.
package scoring

// Table — статическая таблица «вид действия → базовые баллы».
// Передаётся конструкторам явно, чтобы стоимость можно было тюнить
// без изменения кода (и подменять в тестах).
type Table map[ActionKind]int

// DefaultTable — базовая стоимость действий.
// onboarding-step стоит 0: баллы за шаги онбординга задаёт вызывающий
// через явное переопределение.
var DefaultTable = Table{
	ActionContentCreate:    20,
	ActionContentLike:      5,
	ActionComment:          10,
	ActionShare:            15,
	ActionJoinGroup:        10,
	ActionCreateGroup:      25,
	ActionAttendEvent:      15,
	ActionProfileComplete:  50,
	ActionReferralApproved: 100,
	ActionOnboardingStep:   0,
}

// PointsFor возвращает базовую стоимость действия.
// Для неизвестного вида возвращает (0, false) — НЕ паникует:
// guard трактует неизвестный вид как автоматический высокий риск.
func (t Table) PointsFor(kind ActionKind) (int, bool) {
	points, ok := t[kind]
	return points, ok
}
