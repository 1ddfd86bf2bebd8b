package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📷 Analisar refeição", "analyze_food"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Painel do dia", "dashboard"),
			tgbotapi.NewInlineKeyboardButtonData("📖 Histórico", "hist:0"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🥗 Receitas", "recipes"),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Metas", "goals"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐ Assinatura", "subscribe"),
		),
	)
}

// BackToMain creates a single-button keyboard returning to the main menu
func BackToMain() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu principal", "main_menu"),
		),
	)
}

// Dashboard creates the dashboard navigation keyboard
func Dashboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Últimos 7 dias", "series_days"),
			tgbotapi.NewInlineKeyboardButtonData("🗓️ Últimas 4 semanas", "series_weeks"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu principal", "main_menu"),
		),
	)
}

// RecipesMenu creates the recipes section keyboard
func RecipesMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Sugerir receitas", "suggest_recipes"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐ Receitas salvas", "saved_recipes"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu principal", "main_menu"),
		),
	)
}

// ConfirmAnalysis creates the save-or-discard keyboard shown after a photo analysis
func ConfirmAnalysis() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Salvar no diário", "confirm_meal"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Descartar", "discard_meal"),
		),
	)
}

// GoalsMenu creates the goals section keyboard
func GoalsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Definir metas", "set_goals"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu principal", "main_menu"),
		),
	)
}

// Subscription creates the upgrade keyboard
func Subscription() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Assinar agora", "subscribe_confirm"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu principal", "main_menu"),
		),
	)
}

// HistoryNav creates the day navigation keyboard for the diary history.
// Offset counts days back from today; offset 0 has no forward button.
func HistoryNav(offset int) tgbotapi.InlineKeyboardMarkup {
	nav := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Dia anterior", fmt.Sprintf("hist:%d", offset+1)),
	}
	if offset > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Dia seguinte ➡️", fmt.Sprintf("hist:%d", offset-1)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		nav,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu principal", "main_menu"),
		),
	)
}
