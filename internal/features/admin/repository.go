// Package admin — repository.go работает с таблицами quarantine
// и admin_login_attempts.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/reputation/internal/common"
)

// Repository работает с админ-таблицами.
// Реализует reputation.QuarantineStore.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// IsQuarantined проверяет, активен ли карантин пользователя.
func (r *Repository) IsQuarantined(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM quarantine WHERE user_id = $1 AND cleared_at IS NULL)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки карантина: %w", err)
	}
	return exists, nil
}

// Quarantine ставит пользователя в карантин. Повторный вызов обновляет
// причину и снова активирует карантин.
func (r *Repository) Quarantine(ctx context.Context, userID, reason string) error {
	query := `
		INSERT INTO quarantine (user_id, reason, created_at, cleared_at)
		VALUES ($1, $2, NOW(), NULL)
		ON CONFLICT (user_id) DO UPDATE
		SET reason = $2, created_at = NOW(), cleared_at = NULL
	`
	if _, err := r.db.Exec(ctx, query, userID, reason); err != nil {
		return fmt.Errorf("ошибка постановки в карантин: %w", err)
	}
	return nil
}

// Clear снимает карантин. Если активного карантина нет — ErrNotQuarantined.
func (r *Repository) Clear(ctx context.Context, userID string) error {
	query := `UPDATE quarantine SET cleared_at = NOW() WHERE user_id = $1 AND cleared_at IS NULL`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("ошибка снятия карантина: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotQuarantined
	}
	return nil
}

// ListActive возвращает активные записи карантина, свежие первыми.
func (r *Repository) ListActive(ctx context.Context) ([]*QuarantineEntry, error) {
	query := `
		SELECT user_id, reason, created_at, cleared_at
		FROM quarantine
		WHERE cleared_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения карантина: %w", err)
	}
	defer rows.Close()

	var entries []*QuarantineEntry
	for rows.Next() {
		var e QuarantineEntry
		if err := rows.Scan(&e.UserID, &e.Reason, &e.CreatedAt, &e.ClearedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования карантина: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// LogAttempt записывает попытку входа оператора.
func (r *Repository) LogAttempt(ctx context.Context, operator string, success bool) error {
	query := `INSERT INTO admin_login_attempts (operator, success) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, operator, success)
	return err
}

// RecentFailedAttempts возвращает количество неудачных попыток за период.
func (r *Repository) RecentFailedAttempts(ctx context.Context, operator string, period time.Duration) (int, error) {
	since := time.Now().Add(-period)
	query := `
		SELECT COUNT(*) FROM admin_login_attempts
		WHERE operator = $1 AND success = FALSE AND attempt_time >= $2
	`
	var count int
	err := r.db.QueryRow(ctx, query, operator, since).Scan(&count)
	return count, err
}
