package menus

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nutriplus/nutribot/internal/bot/keyboards"
	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/entitlement"
	"github.com/nutriplus/nutribot/internal/goals"
)

// SendMainMenu sends the main menu with the current access banner
func SendMainMenu(api *tgbotapi.BotAPI, chatID int64, st entitlement.State) error {
	text := `🥦 *Nutri+* — seu diário alimentar inteligente

📷 Envie uma foto da sua refeição e eu:
• Identifico o prato e a porção
• Estimo calorias, proteínas, carboidratos e gorduras
• Registro tudo no seu diário

` + accessBanner(st) + `

Escolha uma opção:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

func accessBanner(st entitlement.State) string {
	switch st.Status {
	case entitlement.StatusSubscribed:
		return "⭐ *Assinatura ativa* — acesso completo"
	case entitlement.StatusLocked:
		return "🔒 *Período de teste encerrado* — assine para continuar registrando"
	default:
		if st.TrialDaysLeft == 1 {
			return "⏳ *Período de teste:* resta 1 dia"
		}
		return fmt.Sprintf("⏳ *Período de teste:* restam %d dias", st.TrialDaysLeft)
	}
}

// SendDashboard sends today's totals with goal progress bars
func SendDashboard(api *tgbotapi.BotAPI, chatID int64, totals domain.MacroTotals, userGoals domain.MacroGoals) error {
	var b strings.Builder
	b.WriteString(greeting(time.Now()) + " 📊 *Resumo de hoje*\n\n")

	if !userGoals.Configured() {
		b.WriteString(fmt.Sprintf("🔥 Calorias: %.0f kcal\n", totals.Calories))
		b.WriteString(fmt.Sprintf("🥩 Proteínas: %.1f g\n", totals.Protein))
		b.WriteString(fmt.Sprintf("🍞 Carboidratos: %.1f g\n", totals.Carbs))
		b.WriteString(fmt.Sprintf("🥑 Gorduras: %.1f g\n\n", totals.Fat))
		b.WriteString("🎯 Defina suas metas em *Metas* para acompanhar o progresso.")
	} else {
		summary := goals.Summarize(totals, userGoals)
		writeProgressLine(&b, "🔥 Calorias", summary.Calories, "kcal")
		writeProgressLine(&b, "🥩 Proteínas", summary.Protein, "g")
		writeProgressLine(&b, "🍞 Carboidratos", summary.Carbs, "g")
		writeProgressLine(&b, "🥑 Gorduras", summary.Fat, "g")
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.Dashboard()
	_, err := api.Send(msg)
	return err
}

func writeProgressLine(b *strings.Builder, label string, p *goals.Progress, unit string) {
	if p == nil {
		return
	}
	over := ""
	if p.Over {
		over = " (Excedido)"
	}
	fmt.Fprintf(b, "%s: %.0f / %.0f %s\n%s %d%%%s\n\n",
		label, p.Current, p.Target, unit, progressBar(p.DisplayPercent), p.Percent, over)
}

func greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 5:
		return "🌙 Boa noite!"
	case h < 12:
		return "☀️ Bom dia!"
	case h < 18:
		return "🌤 Boa tarde!"
	default:
		return "🌙 Boa noite!"
	}
}

// progressBar renders a 10-slot bar from a 0-100 percent.
func progressBar(displayPercent int) string {
	filled := displayPercent / 10
	return strings.Repeat("▓", filled) + strings.Repeat("░", 10-filled)
}

// SendGoalsMenu sends the current goal set with an edit option
func SendGoalsMenu(api *tgbotapi.BotAPI, chatID int64, g domain.MacroGoals) error {
	var text string
	if !g.Configured() {
		text = `🎯 *Metas diárias*

Você ainda não definiu suas metas.

Toque em *Definir metas* e envie quatro números: calorias, proteínas, carboidratos e gorduras.
Exemplo: ` + "`2000 150 250 70`"
	} else {
		text = fmt.Sprintf(`🎯 *Metas diárias*

🔥 Calorias: %.0f kcal
🥩 Proteínas: %.0f g
🍞 Carboidratos: %.0f g
🥑 Gorduras: %.0f g`, g.Calories, g.Protein, g.Carbs, g.Fat)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.GoalsMenu()
	_, err := api.Send(msg)
	return err
}

// SendSubscriptionPrompt sends the upgrade screen.
func SendSubscriptionPrompt(api *tgbotapi.BotAPI, chatID int64, st entitlement.State) error {
	var header string
	switch st.Status {
	case entitlement.StatusSubscribed:
		header = "⭐ Sua assinatura está ativa. Bom apetite!"
	case entitlement.StatusLocked:
		header = "🔒 Seu período de teste de 3 dias terminou.\n\nAssine o Nutri+ para voltar a registrar refeições."
	default:
		header = fmt.Sprintf("⏳ Você ainda tem %d dia(s) de teste.\n\nAssine agora e não perca o acesso.", st.TrialDaysLeft)
	}

	text := header + `

*Com a assinatura você tem:*
• Registro ilimitado de refeições por foto
• Painel diário com metas personalizadas
• Sugestões de receitas com seus ingredientes`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if st.Status == entitlement.StatusSubscribed {
		msg.ReplyMarkup = keyboards.BackToMain()
	} else {
		msg.ReplyMarkup = keyboards.Subscription()
	}
	_, err := api.Send(msg)
	return err
}

// SendOnboarding greets a brand-new user and starts goal setup
func SendOnboarding(api *tgbotapi.BotAPI, chatID int64, firstName string) error {
	name := firstName
	if name == "" {
		name = "por aqui"
	}
	text := fmt.Sprintf(`👋 Olá, %s! Bem-vindo ao *Nutri+*.

Antes de começar, vamos definir suas metas diárias.

Envie quatro números separados por espaço: calorias, proteínas (g), carboidratos (g) e gorduras (g).
Exemplo: `+"`2000 150 250 70`", name)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	_, err := api.Send(msg)
	return err
}
