// Package reputation — repository.go выполняет операции с таблицами
// reputation и action_log в PostgreSQL.
package reputation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/reputation/internal/features/scoring"
)

// Repository — продакшен-реализация Ledger поверх PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий репутации.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// RecentActions возвращает попытки пользователя начиная с since,
// от свежих к старым.
func (r *Repository) RecentActions(ctx context.Context, userID string, since time.Time) ([]*scoring.ActionRecord, error) {
	query := `
		SELECT id, user_id, kind, points, metadata, accepted, created_at
		FROM action_log
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала действий: %w", err)
	}
	defer rows.Close()

	var records []*scoring.ActionRecord
	for rows.Next() {
		var rec scoring.ActionRecord
		var rawMeta []byte
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.Points, &rawMeta, &rec.Accepted, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		if len(rawMeta) > 0 {
			if err := json.Unmarshal(rawMeta, &rec.Metadata); err != nil {
				return nil, fmt.Errorf("ошибка разбора метаданных: %w", err)
			}
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// LogAction записывает одну попытку действия в журнал.
func (r *Repository) LogAction(ctx context.Context, rec *scoring.ActionRecord) error {
	query := `
		INSERT INTO action_log (id, user_id, kind, points, metadata, accepted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.UserID, rec.Kind, rec.Points, rec.Metadata.Serialize(), rec.Accepted, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи в журнал действий: %w", err)
	}
	return nil
}

// AddPoints атомарно прибавляет баллы и возвращает старую и новую сумму.
// Один SQL-оператор с RETURNING: чтение и запись не могут разъехаться
// даже при параллельных вызовах.
func (r *Repository) AddPoints(ctx context.Context, userID string, delta int) (int, int, error) {
	query := `
		INSERT INTO reputation (user_id, total_points, badges, last_updated_at)
		VALUES ($1, $2, '{}', NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET total_points = reputation.total_points + $2, last_updated_at = NOW()
		RETURNING total_points
	`
	var newTotal int
	if err := r.db.QueryRow(ctx, query, userID, delta).Scan(&newTotal); err != nil {
		return 0, 0, fmt.Errorf("ошибка начисления баллов: %w", err)
	}
	return newTotal - delta, newTotal, nil
}

// Reputation возвращает снимок репутации или (nil, nil), если записи нет.
func (r *Repository) Reputation(ctx context.Context, userID string) (*UserReputation, error) {
	query := `
		SELECT user_id, total_points, level, badges, last_updated_at
		FROM reputation WHERE user_id = $1
	`
	var rep UserReputation
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&rep.UserID, &rep.TotalPoints, &rep.Level, &rep.Badges, &rep.LastUpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения репутации: %w", err)
	}
	return &rep, nil
}

// PutReputation сохраняет снимок репутации.
func (r *Repository) PutReputation(ctx context.Context, rep *UserReputation) error {
	query := `
		INSERT INTO reputation (user_id, total_points, level, badges, last_updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET total_points = $2, level = $3, badges = $4, last_updated_at = $5
	`
	_, err := r.db.Exec(ctx, query,
		rep.UserID, rep.TotalPoints, rep.Level, rep.Badges, rep.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения репутации: %w", err)
	}
	return nil
}

// TrimActionLog удаляет записи журнала старше cutoff.
// Вызывается кроном: окно guard'а ограничено, вечная история не нужна.
func (r *Repository) TrimActionLog(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM action_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки журнала: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Summary собирает сводку по журналу начиная с since:
// сколько попыток принято, сколько отклонено и какие виды отклонялись.
func (r *Repository) Summary(ctx context.Context, since time.Time) (*SecuritySummary, error) {
	summary := &SecuritySummary{
		Since:          since,
		RejectedByKind: make(map[scoring.ActionKind]int),
	}

	query := `
		SELECT accepted, COUNT(*) FROM action_log
		WHERE created_at >= $1
		GROUP BY accepted
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("ошибка сбора сводки: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var accepted bool
		var count int
		if err := rows.Scan(&accepted, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сводки: %w", err)
		}
		if accepted {
			summary.AcceptedCount = count
		} else {
			summary.RejectedCount = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	kindQuery := `
		SELECT kind, COUNT(*) FROM action_log
		WHERE created_at >= $1 AND accepted = FALSE
		GROUP BY kind
	`
	kindRows, err := r.db.Query(ctx, kindQuery, since)
	if err != nil {
		return nil, fmt.Errorf("ошибка сбора сводки по видам: %w", err)
	}
	defer kindRows.Close()
	for kindRows.Next() {
		var kind scoring.ActionKind
		var count int
		if err := kindRows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сводки по видам: %w", err)
		}
		summary.RejectedByKind[kind] = count
	}
	return summary, kindRows.Err()
}
