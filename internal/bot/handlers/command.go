package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nutriplus/nutribot/internal/aggregate"
	"github.com/nutriplus/nutribot/internal/bot/menus"
	"github.com/nutriplus/nutribot/internal/bot/state"
	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.UserProfile) error {
	logger.Infof("Handling command %s from user %d", message.Command(), user.ID)
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		// New users set goals before anything else
		if !user.Goals.Configured() {
			h.stateManager.SetUserState(user.TelegramID, state.WaitingForGoals)
			return menus.SendOnboarding(h.api, chatID, user.FirstName)
		}
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return menus.SendMainMenu(h.api, chatID, h.deps.UserService.Entitlement(user))
	case "hoje":
		return sendDashboard(ctx, h.api, h.deps, chatID, user)
	case "semana":
		return sendSeries(ctx, h.api, h.deps, chatID, user, aggregate.ModeDays)
	case "historico":
		return sendHistory(ctx, h.api, h.deps, chatID, user, 0)
	case "metas":
		return menus.SendGoalsMenu(h.api, chatID, user.Goals)
	case "receitas":
		h.stateManager.SetUserState(user.TelegramID, state.WaitingForIngredients)
		msg := tgbotapi.NewMessage(chatID, "🥗 Me diga quais ingredientes você tem em casa, separados por vírgula.\nExemplo: frango, batata doce, brócolis")
		_, err := h.api.Send(msg)
		return err
	case "assinatura":
		return menus.SendSubscriptionPrompt(h.api, chatID, h.deps.UserService.Entitlement(user))
	case "help":
		return h.handleHelp(chatID)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

// handleHelp handles the /help command
func (h *CommandHandler) handleHelp(chatID int64) error {
	text := `Comandos disponíveis:
/start - Mostrar o menu principal
/hoje - Resumo nutricional de hoje
/semana - Gráfico dos últimos 7 dias
/historico - Navegar pelo diário
/metas - Ver e definir metas diárias
/receitas - Sugestões de receitas com seus ingredientes
/assinatura - Detalhes da assinatura
/help - Mostrar esta mensagem

Como registrar uma refeição:
1. Envie uma foto do prato
2. Confira a análise nutricional
3. Toque em "Salvar no diário"

O período de teste dura 3 dias. Depois disso é preciso assinar para continuar registrando.`

	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Comando desconhecido. Use /help para ver os comandos disponíveis.")
	_, err := h.api.Send(msg)
	return err
}
