// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, guard, движок
// прогрессии и собирает всё в один фасад репутации.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reputation/internal/config"
	"serotonyl.ru/reputation/internal/db/postgres"
	"serotonyl.ru/reputation/internal/features/abuse"
	"serotonyl.ru/reputation/internal/features/admin"
	"serotonyl.ru/reputation/internal/features/progression"
	"serotonyl.ru/reputation/internal/features/reputation"
	"serotonyl.ru/reputation/internal/features/scoring"
	"serotonyl.ru/reputation/internal/jobs"
	"serotonyl.ru/reputation/internal/notify"
)

// App содержит все компоненты приложения.
type App struct {
	Reputation *reputation.Service
	Admin      *admin.Service
	Scheduler  *jobs.Scheduler
	DB         *pgxpool.Pool
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Репозитории ===
	repRepo := reputation.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)

	// === 3. Ядро: guard, кривая, движок, значки ===
	guard := abuse.NewGuard(cfg, repRepo, nil)
	curve := progression.NewCurve(progression.MaxLevel)
	engine := progression.NewEngine(curve, progression.DefaultLevels(curve))
	badges := progression.NewBadgeSet(progression.DefaultBadges)

	// === 4. Sink'и уведомлений ===
	sinks := notify.Fanout{notify.NewLogSink()}
	if cfg.NotifyTelegramEnabled {
		tg, err := notify.NewTelegramSink(cfg.TelegramBotToken, cfg.NotifyChatID)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка инициализации Telegram: %w", err)
		}
		sinks = append(sinks, tg)
		log.Info("Telegram-уведомления включены")
	}

	// === 5. Фасад ===
	service := reputation.NewService(
		repRepo, adminRepo, guard,
		scoring.DefaultTable, curve, engine, badges,
		sinks, nil,
	)

	// === 6. Админка и планировщик ===
	adminService := admin.NewService(adminRepo, cfg)
	scheduler := jobs.NewScheduler(repRepo, repRepo, cfg)

	return &App{
		Reputation: service,
		Admin:      adminService,
		Scheduler:  scheduler,
		DB:         pool,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	// Выполняем миграции по порядку
	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Reputation},
		{2, migration002ActionLog},
		{3, migration003Quarantine},
		{4, migration004Admin},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Reputation = `
CREATE TABLE IF NOT EXISTS reputation (
    user_id TEXT PRIMARY KEY,
    total_points BIGINT NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 0,
    badges TEXT[] NOT NULL DEFAULT '{}',
    last_updated_at TIMESTAMP DEFAULT NOW()
);
`

var migration002ActionLog = `
CREATE TABLE IF NOT EXISTS action_log (
    id UUID PRIMARY KEY,
    user_id TEXT NOT NULL,
    kind VARCHAR(50) NOT NULL,
    points INTEGER NOT NULL DEFAULT 0,
    metadata JSONB,
    accepted BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_action_log_user_created ON action_log(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_action_log_created_at ON action_log(created_at);
`

var migration003Quarantine = `
CREATE TABLE IF NOT EXISTS quarantine (
    user_id TEXT PRIMARY KEY,
    reason TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    cleared_at TIMESTAMP
);
`

var migration004Admin = `
CREATE TABLE IF NOT EXISTS admin_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    operator TEXT NOT NULL,
    attempt_time TIMESTAMP NOT NULL DEFAULT NOW(),
    success BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_admin_attempts_operator ON admin_login_attempts(operator, attempt_time);
`
