package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nutriplus/nutribot/internal/aggregate"
	"github.com/nutriplus/nutribot/internal/bot/keyboards"
	"github.com/nutriplus/nutribot/internal/bot/menus"
	"github.com/nutriplus/nutribot/internal/bot/state"
	"github.com/nutriplus/nutribot/internal/domain"
	apperrors "github.com/nutriplus/nutribot/internal/errors"
	"github.com/nutriplus/nutribot/internal/interfaces"
)

const errorMessage = "Desculpe, algo deu errado. Tente novamente em instantes."

// replyEntitlement intercepts a subscription-required refusal and turns it
// into the upgrade prompt. Returns true when the error was handled.
func replyEntitlement(api *tgbotapi.BotAPI, chatID int64, user *domain.UserProfile, users interfaces.UserServiceInterface, err error) (bool, error) {
	if !errors.Is(err, apperrors.ErrSubscriptionRequired) {
		return false, nil
	}
	return true, menus.SendSubscriptionPrompt(api, chatID, users.Entitlement(user))
}

func sendError(api *tgbotapi.BotAPI, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, errorMessage)
	_, err := api.Send(msg)
	return err
}

func sendDashboard(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, chatID int64, user *domain.UserProfile) error {
	totals, err := deps.MealService.DailyTotals(ctx, user.ID, time.Now())
	if err != nil {
		return sendError(api, chatID)
	}
	return menus.SendDashboard(api, chatID, totals, user.Goals)
}

func sendSeries(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, chatID int64, user *domain.UserProfile, mode aggregate.Mode) error {
	buckets, err := deps.MealService.Series(ctx, user.ID, mode, time.Now())
	if err != nil {
		return sendError(api, chatID)
	}

	title := "📅 *Calorias — últimos 7 dias*"
	if mode == aggregate.ModeWeeks {
		title = "🗓️ *Calorias — últimas 4 semanas*"
	}

	var maxCalories float64
	for _, b := range buckets {
		if b.Calories > maxCalories {
			maxCalories = b.Calories
		}
	}

	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf("`%-11s` %s %.0f kcal\n", b.Label, calorieBar(b.Calories, maxCalories), b.Calories))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.Dashboard()
	_, err = api.Send(msg)
	return err
}

// calorieBar scales a value against the series maximum into an 8-slot bar.
func calorieBar(value, max float64) string {
	if max <= 0 {
		return strings.Repeat("░", 8)
	}
	filled := int(value / max * 8)
	if filled > 8 {
		filled = 8
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", 8-filled)
}

func sendHistory(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, chatID int64, user *domain.UserProfile, offset int) error {
	if offset < 0 {
		offset = 0
	}
	day := time.Now().AddDate(0, 0, -offset)

	meals, err := deps.MealService.MealsOn(ctx, user.ID, day)
	if err != nil {
		return sendError(api, chatID)
	}

	var header string
	switch offset {
	case 0:
		header = "📖 *Diário de hoje*"
	case 1:
		header = "📖 *Diário de ontem*"
	default:
		header = fmt.Sprintf("📖 *Diário de %s*", day.Format("02/01/2006"))
	}

	var sb strings.Builder
	sb.WriteString(header + "\n\n")
	if len(meals) == 0 {
		sb.WriteString("Nenhuma refeição registrada neste dia.")
	} else {
		var total float64
		for i, m := range meals {
			sb.WriteString(fmt.Sprintf("%d. *%s* — %.0f kcal (%s)\n", i+1, m.Name, m.Calories, m.Timestamp.Format("15:04")))
			total += m.Calories
		}
		sb.WriteString(fmt.Sprintf("\n🔥 Total: %.0f kcal", total))
	}

	keyboard := keyboards.HistoryNav(offset)
	if len(meals) > 0 {
		var row []tgbotapi.InlineKeyboardButton
		for i, m := range meals {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🗑 %d", i+1),
				fmt.Sprintf("delmeal:%d:%s", offset, m.ID),
			))
			// Telegram rows get cramped past five buttons
			if len(row) == 5 || i == len(meals)-1 {
				keyboard.InlineKeyboard = append([][]tgbotapi.InlineKeyboardButton{row}, keyboard.InlineKeyboard...)
				row = nil
			}
		}
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	_, err = api.Send(msg)
	return err
}

func sendRecipeList(api *tgbotapi.BotAPI, chatID int64, recipes []domain.Recipe, header string) error {
	var sb strings.Builder
	sb.WriteString(header + "\n\n")
	for i, r := range recipes {
		sb.WriteString(fmt.Sprintf("*%d. %s*\n", i+1, r.Name))
		if r.Description != "" {
			sb.WriteString(r.Description + "\n")
		}
		if r.TimeToCook != "" {
			sb.WriteString(fmt.Sprintf("⏱ %s · %s\n", r.TimeToCook, r.Difficulty))
		}
		sb.WriteString(fmt.Sprintf("🔥 %.0f kcal · 🥩 %.0fg · 🍞 %.0fg · 🥑 %.0fg\n", r.Calories, r.Protein, r.Carbs, r.Fat))
		if len(r.Ingredients) > 0 {
			sb.WriteString("🧺 " + strings.Join(r.Ingredients, ", ") + "\n")
		}
		if len(r.Instructions) > 0 {
			sb.WriteString("📝 Modo de preparo:\n")
			for j, step := range r.Instructions {
				sb.WriteString(fmt.Sprintf("  %d. %s\n", j+1, step))
			}
		}
		sb.WriteString("\n")
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup()
	for i := range recipes {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("⭐ Favoritar %d", i+1), fmt.Sprintf("recipe_save:%d", i)),
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("➕ Ao diário %d", i+1), fmt.Sprintf("recipe_add:%d", i)),
			),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu principal", "main_menu"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	_, err := api.Send(msg)
	return err
}

// rememberRecipes stashes the displayed list so index callbacks can resolve it.
func rememberRecipes(sm state.StateManager, telegramID int64, recipes []domain.Recipe) {
	data, err := json.Marshal(recipes)
	if err != nil {
		return
	}
	sm.SetTempData(telegramID, state.KeySuggestions, string(data))
}

func recallRecipe(sm state.StateManager, telegramID int64, idxStr string) (domain.Recipe, bool) {
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return domain.Recipe{}, false
	}
	raw, ok := sm.GetTempData(telegramID, state.KeySuggestions)
	if !ok {
		return domain.Recipe{}, false
	}
	var recipes []domain.Recipe
	if err := json.Unmarshal([]byte(raw), &recipes); err != nil {
		return domain.Recipe{}, false
	}
	if idx < 0 || idx >= len(recipes) {
		return domain.Recipe{}, false
	}
	return recipes[idx], true
}
