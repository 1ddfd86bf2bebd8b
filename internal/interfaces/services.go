package interfaces

import (
	"context"
	"time"

	"github.com/nutriplus/nutribot/internal/aggregate"
	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/entitlement"
)

// UserServiceInterface defines the contract for profile and access operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.UserProfile, error)
	Entitlement(profile *domain.UserProfile) entitlement.State
	UpdateGoals(ctx context.Context, profile *domain.UserProfile, newGoals domain.MacroGoals) error
	ActivateSubscription(ctx context.Context, profile *domain.UserProfile) error
}

// MealServiceInterface defines the contract for the meal diary
type MealServiceInterface interface {
	AddMeal(ctx context.Context, profile *domain.UserProfile, rec domain.MealRecord) (domain.MealRecord, error)
	AddFromAnalysis(ctx context.Context, profile *domain.UserProfile, result *domain.AnalysisResult, imageURL string) (domain.MealRecord, error)
	AddFromRecipe(ctx context.Context, profile *domain.UserProfile, recipe domain.Recipe) (domain.MealRecord, error)
	RemoveMeal(ctx context.Context, profile *domain.UserProfile, id string) error
	DailyTotals(ctx context.Context, userID uint, ref time.Time) (domain.MacroTotals, error)
	Series(ctx context.Context, userID uint, mode aggregate.Mode, now time.Time) ([]aggregate.Bucket, error)
	MealsOn(ctx context.Context, userID uint, ref time.Time) ([]domain.MealRecord, error)
}

// RecipeServiceInterface defines the contract for recipe suggestions and favorites
type RecipeServiceInterface interface {
	Suggest(ctx context.Context, ingredients string) ([]domain.Recipe, error)
	Saved(ctx context.Context, userID uint) ([]domain.Recipe, error)
	ToggleSave(ctx context.Context, profile *domain.UserProfile, recipe domain.Recipe) (bool, error)
}

// AIServiceInterface defines the contract for image analysis
type AIServiceInterface interface {
	AnalyzeFoodImage(ctx context.Context, imageURL string) (*domain.AnalysisResult, error)
}
