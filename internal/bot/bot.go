package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nutriplus/nutribot/internal/bot/handlers"
	"github.com/nutriplus/nutribot/internal/bot/state"
	apperrors "github.com/nutriplus/nutribot/internal/errors"
	"github.com/nutriplus/nutribot/internal/logger"
)

// Bot wires the Telegram API to the update handler and runs the poll loop.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
	errors  *apperrors.Handler
}

func New(api *tgbotapi.BotAPI, deps handlers.Dependencies, stateManager state.StateManager) *Bot {
	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, deps, stateManager),
		errors:  apperrors.NewHandler(logger.GetLogger()),
	}
}

// NewAPI authorizes against the Telegram Bot API.
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	logger.Infof("Bot authorized on account %s", api.Self.UserName)
	return api, nil
}

// Start polls for updates until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if err := b.handler.Handle(ctx, update); err != nil {
				b.errors.Handle(ctx, err)
			}
		}
	}
}
