// Package abuse реализует эвристическую проверку действий перед начислением.
// models.go описывает результат оценки риска.
package abuse

// RiskLevel — уровень риска, упорядочен от низкого к критическому.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

// String возвращает текстовое представление уровня риска.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Action — рекомендация guard'а по поводу действия.
type Action string

const (
	ActionAllow  Action = "allow"  // Пропустить и начислить баллы
	ActionReview Action = "review" // Пропустить, но пометить для ручной проверки
	ActionBlock  Action = "block"  // Отклонить и закарантинить пользователя
)

// Assessment — результат одной оценки. Эфемерен: строится на каждый вызов
// и никуда не сохраняется.
type Assessment struct {
	IsValid     bool      // false — действие отклоняется
	Issues      []string  // Находки по порядку проверок, человекочитаемые
	Confidence  int       // Агрегированная уверенность в фроде, 0..100
	RiskLevel   RiskLevel // Производный уровень риска
	Recommended Action    // allow / review / block
}

// Blocked сообщает, требует ли оценка отклонить действие.
func (a *Assessment) Blocked() bool {
	return !a.IsValid || a.Recommended == ActionBlock
}
