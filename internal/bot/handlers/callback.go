package handlers

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nutriplus/nutribot/internal/aggregate"
	"github.com/nutriplus/nutribot/internal/bot/keyboards"
	"github.com/nutriplus/nutribot/internal/bot/menus"
	"github.com/nutriplus/nutribot/internal/bot/state"
	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *domain.UserProfile) error {
	// Answer the callback query first
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		logger.Warnf("Failed to answer callback query: %v", err)
	}

	chatID := query.Message.Chat.ID
	data := query.Data

	if offset, ok := strings.CutPrefix(data, "hist:"); ok {
		return h.handleHistory(ctx, chatID, user, offset)
	}
	if rest, ok := strings.CutPrefix(data, "delmeal:"); ok {
		return h.handleDeleteMeal(ctx, chatID, user, rest)
	}
	if idx, ok := strings.CutPrefix(data, "recipe_save:"); ok {
		return h.handleRecipeSave(ctx, chatID, user, idx)
	}
	if idx, ok := strings.CutPrefix(data, "recipe_add:"); ok {
		return h.handleRecipeAdd(ctx, chatID, user, idx)
	}

	switch data {
	case "main_menu":
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return menus.SendMainMenu(h.api, chatID, h.deps.UserService.Entitlement(user))
	case "dashboard":
		return sendDashboard(ctx, h.api, h.deps, chatID, user)
	case "series_days":
		return sendSeries(ctx, h.api, h.deps, chatID, user, aggregate.ModeDays)
	case "series_weeks":
		return sendSeries(ctx, h.api, h.deps, chatID, user, aggregate.ModeWeeks)
	case "analyze_food":
		return h.handleAnalyzeFood(chatID, user)
	case "confirm_meal":
		return h.handleConfirmMeal(ctx, chatID, user)
	case "discard_meal":
		return h.handleDiscardMeal(chatID, user)
	case "goals":
		return menus.SendGoalsMenu(h.api, chatID, user.Goals)
	case "set_goals":
		return h.handleSetGoals(chatID, user)
	case "recipes":
		return h.handleRecipesMenu(chatID)
	case "suggest_recipes":
		return h.handleSuggestRecipes(chatID, user)
	case "saved_recipes":
		return h.handleSavedRecipes(ctx, chatID, user)
	case "subscribe":
		return menus.SendSubscriptionPrompt(h.api, chatID, h.deps.UserService.Entitlement(user))
	case "subscribe_confirm":
		return h.handleSubscribeConfirm(ctx, chatID, user)
	default:
		return h.handleUnknownCallback(chatID)
	}
}

func (h *CallbackHandler) handleHistory(ctx context.Context, chatID int64, user *domain.UserProfile, offsetStr string) error {
	offset, err := strconv.Atoi(offsetStr)
	if err != nil {
		return h.handleUnknownCallback(chatID)
	}
	return sendHistory(ctx, h.api, h.deps, chatID, user, offset)
}

// handleDeleteMeal removes a diary entry; the callback carries the day offset
// so the same history page can be re-rendered afterwards.
func (h *CallbackHandler) handleDeleteMeal(ctx context.Context, chatID int64, user *domain.UserProfile, rest string) error {
	offsetStr, mealID, ok := strings.Cut(rest, ":")
	if !ok {
		return h.handleUnknownCallback(chatID)
	}
	offset, err := strconv.Atoi(offsetStr)
	if err != nil {
		return h.handleUnknownCallback(chatID)
	}

	if err := h.deps.MealService.RemoveMeal(ctx, user, mealID); err != nil {
		if handled, herr := replyEntitlement(h.api, chatID, user, h.deps.UserService, err); handled {
			return herr
		}
		logger.Errorf("Failed to remove meal %s for user %d: %v", mealID, user.ID, err)
		return sendError(h.api, chatID)
	}

	msg := tgbotapi.NewMessage(chatID, "🗑 Refeição removida do diário.")
	if _, err := h.api.Send(msg); err != nil {
		return err
	}
	return sendHistory(ctx, h.api, h.deps, chatID, user, offset)
}

// handleAnalyzeFood prompts for a food photo
func (h *CallbackHandler) handleAnalyzeFood(chatID int64, user *domain.UserProfile) error {
	st := h.deps.UserService.Entitlement(user)
	if !st.AllowsWrites() {
		return menus.SendSubscriptionPrompt(h.api, chatID, st)
	}

	text := `📷 *Envie uma foto da sua refeição*

💡 *Para uma análise mais precisa:*
• Fotografe o prato inteiro, de cima
• Garanta boa iluminação
• Evite pratos pela metade

Depois da análise você decide se salva no diário.`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMain()
	_, err := h.api.Send(msg)
	return err
}

// handleConfirmMeal saves the pending photo analysis to the diary
func (h *CallbackHandler) handleConfirmMeal(ctx context.Context, chatID int64, user *domain.UserProfile) error {
	raw, ok := h.stateManager.GetTempData(user.TelegramID, state.KeyPendingAnalysis)
	if !ok {
		msg := tgbotapi.NewMessage(chatID, "Não encontrei uma análise pendente. Envie a foto novamente.")
		_, err := h.api.Send(msg)
		return err
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logger.Errorf("Failed to decode pending analysis for user %d: %v", user.ID, err)
		return sendError(h.api, chatID)
	}
	imageURL, _ := h.stateManager.GetTempData(user.TelegramID, state.KeyPendingImageURL)

	if _, err := h.deps.MealService.AddFromAnalysis(ctx, user, &result, imageURL); err != nil {
		if handled, herr := replyEntitlement(h.api, chatID, user, h.deps.UserService, err); handled {
			return herr
		}
		logger.Errorf("Failed to add meal from analysis for user %d: %v", user.ID, err)
		return sendError(h.api, chatID)
	}

	h.stateManager.ClearTempData(user.TelegramID)

	msg := tgbotapi.NewMessage(chatID, "✅ Refeição registrada no diário!")
	if _, err := h.api.Send(msg); err != nil {
		return err
	}
	return sendDashboard(ctx, h.api, h.deps, chatID, user)
}

func (h *CallbackHandler) handleDiscardMeal(chatID int64, user *domain.UserProfile) error {
	h.stateManager.ClearTempData(user.TelegramID)
	msg := tgbotapi.NewMessage(chatID, "Análise descartada. Nada foi registrado.")
	msg.ReplyMarkup = keyboards.BackToMain()
	_, err := h.api.Send(msg)
	return err
}

// handleSetGoals starts goal entry. First-run setup is always allowed;
// changing existing goals is a gated write.
func (h *CallbackHandler) handleSetGoals(chatID int64, user *domain.UserProfile) error {
	if user.Goals.Configured() {
		st := h.deps.UserService.Entitlement(user)
		if !st.AllowsWrites() {
			return menus.SendSubscriptionPrompt(h.api, chatID, st)
		}
	}

	h.stateManager.SetUserState(user.TelegramID, state.WaitingForGoals)
	msg := tgbotapi.NewMessage(chatID, "Envie quatro números separados por espaço: calorias, proteínas (g), carboidratos (g) e gorduras (g).\nExemplo: 2000 150 250 70")
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleRecipesMenu(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🥗 O que você quer fazer?")
	msg.ReplyMarkup = keyboards.RecipesMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleSuggestRecipes(chatID int64, user *domain.UserProfile) error {
	h.stateManager.SetUserState(user.TelegramID, state.WaitingForIngredients)
	msg := tgbotapi.NewMessage(chatID, "Me diga quais ingredientes você tem em casa, separados por vírgula.\nExemplo: frango, batata doce, brócolis")
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleSavedRecipes(ctx context.Context, chatID int64, user *domain.UserProfile) error {
	recipes, err := h.deps.RecipeService.Saved(ctx, user.ID)
	if err != nil {
		logger.Errorf("Failed to list saved recipes for user %d: %v", user.ID, err)
		return sendError(h.api, chatID)
	}
	if len(recipes) == 0 {
		msg := tgbotapi.NewMessage(chatID, "Você ainda não salvou nenhuma receita. Peça sugestões e toque em ⭐ para favoritar.")
		msg.ReplyMarkup = keyboards.RecipesMenu()
		_, err := h.api.Send(msg)
		return err
	}

	rememberRecipes(h.stateManager, user.TelegramID, recipes)
	return sendRecipeList(h.api, chatID, recipes, "⭐ *Suas receitas salvas*")
}

func (h *CallbackHandler) handleRecipeSave(ctx context.Context, chatID int64, user *domain.UserProfile, idxStr string) error {
	recipe, ok := recallRecipe(h.stateManager, user.TelegramID, idxStr)
	if !ok {
		return h.handleUnknownCallback(chatID)
	}

	saved, err := h.deps.RecipeService.ToggleSave(ctx, user, recipe)
	if err != nil {
		if handled, herr := replyEntitlement(h.api, chatID, user, h.deps.UserService, err); handled {
			return herr
		}
		logger.Errorf("Failed to toggle recipe for user %d: %v", user.ID, err)
		return sendError(h.api, chatID)
	}

	text := "⭐ Receita salva nos favoritos!"
	if !saved {
		text = "Receita removida dos favoritos."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err = h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleRecipeAdd(ctx context.Context, chatID int64, user *domain.UserProfile, idxStr string) error {
	recipe, ok := recallRecipe(h.stateManager, user.TelegramID, idxStr)
	if !ok {
		return h.handleUnknownCallback(chatID)
	}

	if _, err := h.deps.MealService.AddFromRecipe(ctx, user, recipe); err != nil {
		if handled, herr := replyEntitlement(h.api, chatID, user, h.deps.UserService, err); handled {
			return herr
		}
		logger.Errorf("Failed to add recipe to diary for user %d: %v", user.ID, err)
		return sendError(h.api, chatID)
	}

	msg := tgbotapi.NewMessage(chatID, "✅ Uma porção de *"+recipe.Name+"* foi registrada no diário.")
	msg.ParseMode = "Markdown"
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleSubscribeConfirm(ctx context.Context, chatID int64, user *domain.UserProfile) error {
	// Payment integration pending; activation is immediate for now
	if err := h.deps.UserService.ActivateSubscription(ctx, user); err != nil {
		logger.Errorf("Failed to activate subscription for user %d: %v", user.ID, err)
		return sendError(h.api, chatID)
	}

	msg := tgbotapi.NewMessage(chatID, "🎉 Assinatura ativada! Seu acesso completo está liberado.")
	if _, err := h.api.Send(msg); err != nil {
		return err
	}
	return menus.SendMainMenu(h.api, chatID, h.deps.UserService.Entitlement(user))
}

// handleUnknownCallback handles unknown callbacks
func (h *CallbackHandler) handleUnknownCallback(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Opção desconhecida. Use /start para abrir o menu.")
	_, err := h.api.Send(msg)
	return err
}
