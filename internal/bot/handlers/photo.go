package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nutriplus/nutribot/internal/bot/keyboards"
	"github.com/nutriplus/nutribot/internal/bot/menus"
	"github.com/nutriplus/nutribot/internal/bot/state"
	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/logger"
)

// PhotoHandler handles photo messages
type PhotoHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *PhotoHandler {
	return &PhotoHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle analyzes a food photo and shows the result for confirmation. Nothing
// is written to the diary until the user taps save.
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.UserProfile) error {
	chatID := message.Chat.ID

	st := h.deps.UserService.Entitlement(user)
	if !st.AllowsWrites() {
		return menus.SendSubscriptionPrompt(h.api, chatID, st)
	}

	// Get the largest photo
	photo := message.Photo[len(message.Photo)-1]
	file, err := h.api.GetFile(tgbotapi.FileConfig{FileID: photo.FileID})
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}
	imageURL := file.Link(h.api.Token)

	processingMsg := tgbotapi.NewMessage(chatID, "🔍 Analisando sua refeição...")
	sentMsg, err := h.api.Send(processingMsg)
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}

	logger.Infof("Starting food analysis for user %d", user.ID)
	analysis, err := h.deps.AIService.AnalyzeFoodImage(ctx, imageURL)

	h.api.Send(tgbotapi.NewDeleteMessage(chatID, sentMsg.MessageID))

	if err != nil {
		logger.Warnf("Food analysis failed for user %d: %v", user.ID, err)
		msg := tgbotapi.NewMessage(chatID, "Não consegui identificar comida nessa foto. Tente outra foto com o prato inteiro e boa iluminação.")
		msg.ReplyMarkup = keyboards.BackToMain()
		_, err := h.api.Send(msg)
		return err
	}
	logger.Infof("Food analysis completed for user %d: %s", user.ID, analysis.FoodName)

	// Stash the result so the confirm callback can save it later
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	h.stateManager.SetTempData(user.TelegramID, state.KeyPendingAnalysis, string(data))
	h.stateManager.SetTempData(user.TelegramID, state.KeyPendingImageURL, imageURL)

	caption := fmt.Sprintf("🍽️ *%s*\n", escapeMarkdown(analysis.FoodName))
	if analysis.Description != "" {
		caption += escapeMarkdown(analysis.Description) + "\n"
	}
	if analysis.Portion != "" {
		caption += fmt.Sprintf("⚖️ Porção: %s\n", escapeMarkdown(analysis.Portion))
	}
	caption += fmt.Sprintf("\n🔥 *Calorias:* %.0f kcal\n🥩 *Proteínas:* %.1f g\n🍞 *Carboidratos:* %.1f g\n🥑 *Gorduras:* %.1f g",
		analysis.Calories, analysis.Protein, analysis.Carbs, analysis.Fat)
	if len(analysis.Ingredients) > 0 {
		caption += "\n\n🧺 " + escapeMarkdown(strings.Join(analysis.Ingredients, ", "))
	}
	caption += "\n\nSalvar no diário?"
	caption = strings.ToValidUTF8(caption, "")

	photoMsg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(photo.FileID))
	photoMsg.Caption = caption
	photoMsg.ParseMode = "Markdown"
	photoMsg.ReplyMarkup = keyboards.ConfirmAnalysis()

	if _, err := h.api.Send(photoMsg); err != nil {
		// If Markdown parsing fails, try sending without Markdown
		photoMsg.ParseMode = ""
		if _, err := h.api.Send(photoMsg); err != nil {
			return fmt.Errorf("failed to send photo message: %w", err)
		}
	}
	return nil
}

func escapeMarkdown(s string) string {
	r := strings.NewReplacer("_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "`", "\\`")
	return r.Replace(s)
}
