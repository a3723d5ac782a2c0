package notify

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// telegramMaxRunes is the Bot API limit for a single text message
const telegramMaxRunes = 4096

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier delivers the alert message through a Telegram bot
type TelegramNotifier struct {
	token  string
	chatID int64
	header string
	logger *zap.Logger

	once   sync.Once
	sender messageSender
	err    error
}

// NewTelegramNotifier creates a notifier. The bot is only contacted when the
// first alert is sent, so a clean heartbeat needs no network access.
func NewTelegramNotifier(token string, chatID int64, header string, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		token:  token,
		chatID: chatID,
		header: header,
		logger: logger,
	}
}

// Notify sends one message containing every alert
func (n *TelegramNotifier) Notify(ctx context.Context, alerts []string) error {
	if len(alerts) == 0 {
		return nil
	}

	sender, err := n.bot()
	if err != nil {
		return err
	}

	text := core.FormatAlertMessage(n.header, alerts)
	if utf8.RuneCountInString(text) > telegramMaxRunes {
		text = string([]rune(text)[:telegramMaxRunes-1]) + "…"
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	n.logger.Info("Alert sent via telegram", zap.Int64("chat_id", n.chatID), zap.Int("alerts", len(alerts)))
	return nil
}

func (n *TelegramNotifier) bot() (messageSender, error) {
	n.once.Do(func() {
		if n.sender != nil {
			return
		}
		if n.token == "" {
			n.err = fmt.Errorf("telegram token is required")
			return
		}
		api, err := tgbotapi.NewBotAPI(n.token)
		if err != nil {
			n.err = fmt.Errorf("failed to create telegram bot: %w", err)
			return
		}
		n.sender = api
	})
	return n.sender, n.err
}
