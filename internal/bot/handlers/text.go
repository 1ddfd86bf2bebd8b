package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nutriplus/nutribot/internal/bot/menus"
	"github.com/nutriplus/nutribot/internal/bot/state"
	"github.com/nutriplus/nutribot/internal/domain"
	apperrors "github.com/nutriplus/nutribot/internal/errors"
	"github.com/nutriplus/nutribot/internal/logger"
)

// TextHandler handles text messages
type TextHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.UserProfile) error {
	userState := h.stateManager.GetUserState(user.TelegramID)

	switch userState {
	case state.WaitingForGoals:
		return h.handleGoalsInput(ctx, message, user)
	case state.WaitingForIngredients:
		return h.handleIngredientsInput(ctx, message, user)
	default:
		return h.handleDefaultText(message.Chat.ID)
	}
}

// handleGoalsInput parses "calorias proteínas carboidratos gorduras"
func (h *TextHandler) handleGoalsInput(ctx context.Context, message *tgbotapi.Message, user *domain.UserProfile) error {
	chatID := message.Chat.ID

	fields := strings.Fields(message.Text)
	if len(fields) != 4 {
		msg := tgbotapi.NewMessage(chatID, "Preciso de quatro números separados por espaço.\nExemplo: 2000 150 250 70")
		_, err := h.api.Send(msg)
		return err
	}

	values := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.ReplaceAll(f, ",", "."), 64)
		if err != nil || v < 0 {
			msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%q não é um número válido. Tente novamente.", f))
			_, err := h.api.Send(msg)
			return err
		}
		values[i] = v
	}

	newGoals := domain.MacroGoals{
		Calories: values[0],
		Protein:  values[1],
		Carbs:    values[2],
		Fat:      values[3],
	}

	if err := h.deps.UserService.UpdateGoals(ctx, user, newGoals); err != nil {
		if handled, herr := replyEntitlement(h.api, chatID, user, h.deps.UserService, err); handled {
			h.stateManager.SetUserState(user.TelegramID, state.None)
			return herr
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
			msg := tgbotapi.NewMessage(chatID, "A meta de calorias precisa ser maior que zero. Tente novamente.")
			_, err := h.api.Send(msg)
			return err
		}
		logger.Errorf("Failed to update goals for user %d: %v", user.ID, err)
		return sendError(h.api, chatID)
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"🎯 Metas definidas!\n\n🔥 %.0f kcal · 🥩 %.0fg · 🍞 %.0fg · 🥑 %.0fg",
		newGoals.Calories, newGoals.Protein, newGoals.Carbs, newGoals.Fat))
	if _, err := h.api.Send(msg); err != nil {
		return err
	}
	return menus.SendMainMenu(h.api, chatID, h.deps.UserService.Entitlement(user))
}

// handleIngredientsInput asks for recipe suggestions from the typed list
func (h *TextHandler) handleIngredientsInput(ctx context.Context, message *tgbotapi.Message, user *domain.UserProfile) error {
	chatID := message.Chat.ID

	searching := tgbotapi.NewMessage(chatID, "👨‍🍳 Procurando receitas com seus ingredientes...")
	sent, err := h.api.Send(searching)
	if err != nil {
		return fmt.Errorf("failed to send searching message: %w", err)
	}

	recipes, err := h.deps.RecipeService.Suggest(ctx, message.Text)

	h.api.Send(tgbotapi.NewDeleteMessage(chatID, sent.MessageID))

	if err != nil {
		if errors.Is(err, apperrors.ErrNoRecipes) {
			msg := tgbotapi.NewMessage(chatID, "Não encontrei receitas com esses ingredientes. Tente uma lista diferente.")
			_, err := h.api.Send(msg)
			return err
		}
		logger.Errorf("Recipe suggestion failed for user %d: %v", user.ID, err)
		msg := tgbotapi.NewMessage(chatID, "Não consegui buscar receitas agora. Tente novamente em instantes.")
		_, err := h.api.Send(msg)
		return err
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)
	rememberRecipes(h.stateManager, user.TelegramID, recipes)
	return sendRecipeList(h.api, chatID, recipes, "🥗 *Sugestões para você*")
}

// handleDefaultText handles text when no specific state is set
func (h *TextHandler) handleDefaultText(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Use o menu ou envie uma foto da sua refeição. /start abre o menu principal.")
	_, err := h.api.Send(msg)
	return err
}
