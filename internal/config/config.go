// Package config загружает конфигурацию сервиса репутации из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"repuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"reputation"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Metrics ---
	MetricsListenAddr string `envconfig:"METRICS_LISTEN_ADDR" default:":9090"`

	// --- Admin ---
	AdminPasswordHash     string        `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
	AdminMaxLoginAttempts int           `envconfig:"ADMIN_MAX_LOGIN_ATTEMPTS" default:"5"`
	AdminLockoutWindow    time.Duration `envconfig:"ADMIN_LOCKOUT_WINDOW" default:"1h"`

	// --- AbuseGuard: окна истории ---
	// Окно, в котором guard смотрит на недавние действия пользователя
	GuardWindow time.Duration `envconfig:"GUARD_WINDOW" default:"1h"`
	// Окно поиска дубликатов метаданных
	GuardDuplicateWindow time.Duration `envconfig:"GUARD_DUPLICATE_WINDOW" default:"30m"`
	// Сколько истории вообще храним (обрезается кроном)
	GuardRetention time.Duration `envconfig:"GUARD_RETENTION" default:"24h"`

	// --- AbuseGuard: пороги ---
	// Сколько одинаковых действий за час считаем флудом
	GuardRepeatThreshold int `envconfig:"GUARD_REPEAT_THRESHOLD" default:"10"`
	// От скольких действий за час начинаем мерить среднюю скорость
	GuardVelocityMinActions int `envconfig:"GUARD_VELOCITY_MIN_ACTIONS" default:"20"`
	// Средний интервал между действиями МЕНЬШЕ этого — «нечеловеческая» скорость
	GuardVelocityMeanGap time.Duration `envconfig:"GUARD_VELOCITY_MEAN_GAP" default:"5s"`
	// Сколько байт-в-байт одинаковых метаданных считаем дубликатным спамом
	GuardDuplicateThreshold int `envconfig:"GUARD_DUPLICATE_THRESHOLD" default:"3"`
	// Сколько последних записей просматриваем при поиске дубликатов
	GuardDuplicateScanLimit int `envconfig:"GUARD_DUPLICATE_SCAN_LIMIT" default:"10"`
	// Жёсткие часовые лимиты: действий и очков
	GuardHourlyActionCap int `envconfig:"GUARD_HOURLY_ACTION_CAP" default:"50"`
	GuardHourlyPointCap  int `envconfig:"GUARD_HOURLY_POINT_CAP" default:"200"`
	// «Дневные» часы — активность вне [From, To] с интенсивностью выше
	// GuardOffHoursMinActions считается подозрительной
	GuardDayHourFrom        int `envconfig:"GUARD_DAY_HOUR_FROM" default:"6"`
	GuardDayHourTo          int `envconfig:"GUARD_DAY_HOUR_TO" default:"23"`
	GuardOffHoursMinActions int `envconfig:"GUARD_OFF_HOURS_MIN_ACTIONS" default:"10"`

	// --- Notify (Telegram) ---
	NotifyTelegramEnabled bool   `envconfig:"NOTIFY_TELEGRAM_ENABLED" default:"false"`
	TelegramBotToken      string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	NotifyChatID          int64  `envconfig:"NOTIFY_CHAT_ID" default:"0"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.GuardWindow <= 0 || c.GuardDuplicateWindow <= 0 || c.GuardRetention < c.GuardWindow {
		return fmt.Errorf("некорректные окна GUARD_WINDOW/GUARD_DUPLICATE_WINDOW/GUARD_RETENTION")
	}
	if c.GuardRepeatThreshold <= 0 || c.GuardDuplicateThreshold <= 0 {
		return fmt.Errorf("пороги guard должны быть > 0")
	}
	if c.GuardHourlyActionCap <= 0 || c.GuardHourlyPointCap <= 0 {
		return fmt.Errorf("часовые лимиты должны быть > 0")
	}
	if c.GuardDayHourFrom < 0 || c.GuardDayHourTo > 23 || c.GuardDayHourFrom >= c.GuardDayHourTo {
		return fmt.Errorf("некорректные GUARD_DAY_HOUR_FROM/GUARD_DAY_HOUR_TO")
	}
	if c.NotifyTelegramEnabled && (c.TelegramBotToken == "" || c.NotifyChatID == 0) {
		return fmt.Errorf("NOTIFY_TELEGRAM_ENABLED требует TELEGRAM_BOT_TOKEN и NOTIFY_CHAT_ID")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
