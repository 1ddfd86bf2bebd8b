package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nutriplus/nutribot/internal/logger"
)

// Notifier delivers transient out-of-band messages, such as the warning sent
// when a background store write fails after an optimistic update.
type Notifier struct {
	api *tgbotapi.BotAPI
}

func NewNotifier(api *tgbotapi.BotAPI) *Notifier {
	return &Notifier{api: api}
}

func (n *Notifier) Notify(ctx context.Context, chatID int64, message string) {
	msg := tgbotapi.NewMessage(chatID, message)
	if _, err := n.api.Send(msg); err != nil {
		logger.Errorf("Failed to notify chat %d: %v", chatID, err)
	}
}
