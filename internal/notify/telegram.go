// Package notify — telegram.go отправляет объявления о повышении уровня
// в Telegram-чат. Отказы доставки только логируются: sink не имеет права
// ронять запись действия.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reputation/internal/common"
	"serotonyl.ru/reputation/internal/features/reputation"
)

// TelegramSink шлёт уведомления о повышении уровня в заданный чат.
// Остальные результаты игнорирует: спамить чатом про каждый лайк незачем.
type TelegramSink struct {
	bot    *telego.Bot
	chatID int64
}

// NewTelegramSink создаёт sink поверх Telegram Bot API.
func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

// Notify отправляет сообщение, если действие привело к повышению уровня.
func (s *TelegramSink) Notify(result *reputation.RecordResult) {
	if result.LevelUp == nil {
		return
	}

	event := result.LevelUp
	text := fmt.Sprintf(
		"🎉 Пользователь %s достиг уровня %d! Всего %s.",
		event.UserID, event.NewLevel, common.FormatPoints(event.TotalPoints),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: s.chatID},
		Text:   text,
	})
	if err != nil {
		log.WithError(err).WithField("user_id", event.UserID).Error("Не удалось отправить уведомление в Telegram")
	}
}
