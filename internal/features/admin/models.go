// Package admin реализует операторские действия над карантином
// с парольной аутентификацией.
// models.go описывает записи карантина и попытки входа.
package admin

import "time"

// QuarantineEntry — пользователь, исключённый из начислений.
// Карантин снимается ТОЛЬКО оператором: cleared_at проставляется вручную.
type QuarantineEntry struct {
	UserID    string     `db:"user_id"`
	Reason    string     `db:"reason"`
	CreatedAt time.Time  `db:"created_at"`
	ClearedAt *time.Time `db:"cleared_at"` // nil — карантин активен
}

// LoginAttempt — попытка входа оператора (для защиты от brute-force).
type LoginAttempt struct {
	ID          int64     `db:"id"`
	Operator    string    `db:"operator"`
	AttemptTime time.Time `db:"attempt_time"`
	Success     bool      `db:"success"`
}
