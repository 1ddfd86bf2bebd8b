package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nutriplus/nutribot/internal/bot"
	"github.com/nutriplus/nutribot/internal/bot/handlers"
	"github.com/nutriplus/nutribot/internal/bot/state"
	"github.com/nutriplus/nutribot/internal/config"
	"github.com/nutriplus/nutribot/internal/database"
	"github.com/nutriplus/nutribot/internal/logger"
	"github.com/nutriplus/nutribot/internal/repository"
	"github.com/nutriplus/nutribot/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting Nutri+ bot")

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info("Database connection established and migrations completed")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := bot.NewAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatalf("Failed to create Telegram API client: %v", err)
	}

	aiService, err := services.NewAIService(ctx, cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	if err != nil {
		logger.Fatalf("Failed to initialize AI service: %v", err)
	}

	userService := services.NewUserService(repository.NewUserRepository(db))
	mealService := services.NewMealService(repository.NewMealRepository(db), bot.NewNotifier(api))
	recipeService := services.NewRecipeService(aiService, repository.NewRecipeRepository(db))
	logger.Info("Services initialized")

	var stateManager state.StateManager
	if cfg.Redis.Enabled {
		redisManager, err := state.NewRedisManager(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisManager.Close()
		stateManager = redisManager
		logger.Info("Using Redis state backend")
	} else {
		stateManager = state.NewManager()
		logger.Info("Using in-memory state backend")
	}

	deps := handlers.Dependencies{
		UserService:   userService,
		MealService:   mealService,
		RecipeService: recipeService,
		AIService:     aiService,
	}

	telegramBot := bot.New(api, deps, stateManager)
	logger.Info("Bot is running, press Ctrl+C to stop")

	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("Bot stopped with error: %v", err)
	}

	// Let pending diary writes settle before exiting
	mealService.Wait()
	logger.Info("Shutdown complete")
}
