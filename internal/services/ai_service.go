package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/nutriplus/nutribot/internal/domain"
	apperrors "github.com/nutriplus/nutribot/internal/errors"
	"github.com/nutriplus/nutribot/internal/logger"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-1.5-flash"

// AIService is the nutrition-estimation and recipe-suggestion collaborator.
// Gemini is the primary provider with OpenAI as fallback; callers only see the
// domain contract, so providers stay swappable.
type AIService struct {
	geminiClient *genai.Client
	openaiClient *openai.Client
}

func NewAIService(ctx context.Context, geminiAPIKey, openaiAPIKey string) (*AIService, error) {
	s := &AIService{}

	if geminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(geminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
	}
	if openaiAPIKey != "" {
		s.openaiClient = openai.NewClient(openaiAPIKey)
	}
	if s.geminiClient == nil && s.openaiClient == nil {
		return nil, fmt.Errorf("no AI provider configured")
	}

	return s, nil
}

const analysisPrompt = `Analise esta imagem de comida. Identifique o prato, estime o tamanho da porção (ex: 200g, 1 prato, 2 fatias) e calcule os valores nutricionais para essa porção específica.

REGRAS:
- Nomes e descrições em Português do Brasil
- Responda SOMENTE com um objeto JSON válido, sem markdown e sem texto extra
- O JSON deve ter exatamente estes campos:
  {
    "foodName": "Nome do prato",
    "description": "Breve descrição visual",
    "portion": "Estimativa da porção (ex: 150g)",
    "calories": 0,
    "protein": 0,
    "carbs": 0,
    "fat": 0,
    "ingredients": ["ingrediente1", "ingrediente2"]
  }
- calories, protein, carbs e fat são números (kcal e gramas)
- Se a imagem não contiver comida, use foodName vazio`

// AnalyzeFoodImage estimates nutrition facts for the photo at imageURL. The
// result is complete or the call fails; partial output is rejected.
func (s *AIService) AnalyzeFoodImage(ctx context.Context, imageURL string) (*domain.AnalysisResult, error) {
	result, err := s.analyzeWithGemini(ctx, imageURL)
	if err != nil && s.openaiClient != nil {
		logger.Warnf("Gemini analysis failed, falling back to OpenAI: %v", err)
		result, err = s.analyzeWithOpenAI(ctx, imageURL)
	}
	if err != nil {
		return nil, err
	}
	if result.FoodName == "" || result.Calories <= 0 {
		return nil, apperrors.ErrAnalysisFailed
	}
	return result, nil
}

func (s *AIService) analyzeWithGemini(ctx context.Context, imageURL string) (*domain.AnalysisResult, error) {
	if s.geminiClient == nil {
		return nil, fmt.Errorf("gemini not configured")
	}
	model := s.geminiClient.GenerativeModel(geminiModel)

	imageData, err := downloadImage(imageURL)
	if err != nil {
		return nil, err
	}

	img := genai.ImageData("image/jpeg", imageData)
	resp, err := model.GenerateContent(ctx, img, genai.Text(analysisPrompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response part from Gemini")
	}
	return parseAnalysis(string(text))
}

func (s *AIService) analyzeWithOpenAI(ctx context.Context, imageURL string) (*domain.AnalysisResult, error) {
	if s.openaiClient == nil {
		return nil, fmt.Errorf("openai not configured")
	}

	resp, err := s.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: analysisPrompt,
						},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL: imageURL,
							},
						},
					},
				},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}
	return parseAnalysis(resp.Choices[0].Message.Content)
}

// SuggestRecipes asks for three fitness recipes built mainly from the given
// free-text ingredient list.
func (s *AIService) SuggestRecipes(ctx context.Context, ingredients string) ([]domain.Recipe, error) {
	prompt := fmt.Sprintf(`Sugira 3 receitas fitness saudáveis que utilizem PRINCIPALMENTE estes ingredientes: %s. Você pode adicionar outros ingredientes comuns de despensa se necessário para completar a receita. Inclua o modo de preparo passo a passo.

REGRAS:
- Idioma: Português do Brasil
- Responda SOMENTE com um array JSON válido, sem markdown e sem texto extra
- Cada receita deve ter exatamente estes campos:
  {
    "name": "...",
    "description": "...",
    "timeToCook": "...",
    "difficulty": "...",
    "calories": 0,
    "protein": 0,
    "carbs": 0,
    "fat": 0,
    "ingredients": ["..."],
    "instructions": ["passo 1", "passo 2"]
  }`, ingredients)

	text, err := s.generateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	jsonStr := extractJSONArray(text)
	if jsonStr == "" {
		return nil, fmt.Errorf("no valid JSON array in recipe response")
	}

	var recipes []domain.Recipe
	if err := json.Unmarshal([]byte(jsonStr), &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse recipes: %w", err)
	}
	return recipes, nil
}

func (s *AIService) generateText(ctx context.Context, prompt string) (string, error) {
	if s.geminiClient != nil {
		model := s.geminiClient.GenerativeModel(geminiModel)
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil && len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
			if text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
				return string(text), nil
			}
		}
		if err != nil {
			logger.Warnf("Gemini text generation failed: %v", err)
		}
		if s.openaiClient == nil {
			return "", fmt.Errorf("gemini text generation failed: %w", err)
		}
	}

	resp, err := s.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func parseAnalysis(text string) (*domain.AnalysisResult, error) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return nil, fmt.Errorf("no valid JSON found in response")
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

func downloadImage(imageURL string) ([]byte, error) {
	resp, err := http.Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return imageData, nil
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// extractJSONArray does the same for a top-level JSON array.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "]")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
