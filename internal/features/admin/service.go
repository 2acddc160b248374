// Package admin — service.go содержит логику операторских действий:
// аутентификация по паролю и управление карантином.
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/reputation/internal/common"
	"serotonyl.ru/reputation/internal/config"
)

// Service управляет операторскими действиями.
type Service struct {
	repo *Repository
	cfg  *config.Config
}

// NewService создаёт сервис админки.
func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// VerifyPassword проверяет пароль оператора по хешу Argon2id.
// Включает защиту от brute-force: после AdminMaxLoginAttempts неудачных
// попыток за AdminLockoutWindow вход блокируется.
func (s *Service) VerifyPassword(ctx context.Context, operator, password string) error {
	attempts, err := s.repo.RecentFailedAttempts(ctx, operator, s.cfg.AdminLockoutWindow)
	if err != nil {
		return err
	}
	if attempts >= s.cfg.AdminMaxLoginAttempts {
		return common.ErrTooManyAttempts
	}

	match := verifyArgon2id(password, s.cfg.AdminPasswordHash)

	if err := s.repo.LogAttempt(ctx, operator, match); err != nil {
		log.WithError(err).Warn("Не удалось записать попытку входа")
	}

	if !match {
		return common.ErrWrongPassword
	}
	return nil
}

// ClearQuarantine снимает карантин с пользователя после проверки пароля.
func (s *Service) ClearQuarantine(ctx context.Context, operator, password, userID string) error {
	if err := s.VerifyPassword(ctx, operator, password); err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"operator": operator,
		"user_id":  userID,
	}).Info("Карантин снят")
	return nil
}

// ListQuarantined возвращает активные записи карантина.
func (s *Service) ListQuarantined(ctx context.Context) ([]*QuarantineEntry, error) {
	return s.repo.ListActive(ctx)
}

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени (защита от timing attack)
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}
