// Package scoring определяет виды действий и их базовую стоимость в баллах.
// models.go описывает закрытое перечисление видов действий, метаданные
// и запись о попытке действия.
package scoring

import (
	"encoding/json"
	"time"
)

// ActionKind — вид действия, влияющего на репутацию.
// Перечисление ЗАКРЫТОЕ: всё, что не входит в список ниже,
// отклоняется как структурно невалидное.
type ActionKind string

const (
	ActionContentCreate    ActionKind = "content-create"    // Публикация контента
	ActionContentLike      ActionKind = "content-like"      // Лайк чужого контента
	ActionComment          ActionKind = "comment"           // Комментарий
	ActionShare            ActionKind = "share"             // Репост
	ActionJoinGroup        ActionKind = "join-group"        // Вступление в сообщество
	ActionCreateGroup      ActionKind = "create-group"      // Создание сообщества
	ActionAttendEvent      ActionKind = "attend-event"      // Участие в событии
	ActionProfileComplete  ActionKind = "profile-complete"  // Заполненный профиль
	ActionReferralApproved ActionKind = "referral-approved" // Одобренный реферал
	ActionOnboardingStep   ActionKind = "onboarding-step"   // Шаг онбординга (баллы задаёт вызывающий)
)

// AllKinds — полный список видов действий в порядке объявления.
var AllKinds = []ActionKind{
	ActionContentCreate, ActionContentLike, ActionComment, ActionShare,
	ActionJoinGroup, ActionCreateGroup, ActionAttendEvent,
	ActionProfileComplete, ActionReferralApproved, ActionOnboardingStep,
}

// Known сообщает, входит ли вид действия в закрытое перечисление.
func (k ActionKind) Known() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Metadata — открытый набор ключ-значение, прилагаемый к действию.
// Обязательные поля зависят от вида действия (см. abuse.ValidateMetadata).
type Metadata map[string]any

// Serialize возвращает каноническое JSON-представление метаданных.
// encoding/json сортирует ключи карты, поэтому одинаковые метаданные
// всегда дают байт-в-байт одинаковую строку. Используется guard'ом
// для поиска дубликатов.
func (m Metadata) Serialize() string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		// Несериализуемые метаданные считаем пустыми — guard отловит их
		// на валидации формы
		return "{}"
	}
	return string(b)
}

// ActionRecord — одна попытка действия, влияющего на репутацию.
// Записывается в журнал и при принятии, и при отказе: скользящее окно
// guard'а строится по ПОПЫТКАМ, иначе флуд никогда не превысит порог.
type ActionRecord struct {
	ID        string     `db:"id"`         // UUID записи
	UserID    string     `db:"user_id"`    // Кто совершил действие
	Kind      ActionKind `db:"kind"`       // Вид действия
	Points    int        `db:"points"`     // Начисленные баллы (0 при отказе)
	Metadata  Metadata   `db:"metadata"`   // Метаданные действия
	Accepted  bool       `db:"accepted"`   // Принято или отклонено
	CreatedAt time.Time  `db:"created_at"` // Время попытки
}
