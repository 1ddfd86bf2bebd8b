package domain

import (
	"context"
)

// NutritionAnalyzer estimates nutrition facts from an encoded food image.
// Implementations are opaque, possibly slow and possibly failing; they either
// return a fully populated result or an error.
type NutritionAnalyzer interface {
	AnalyzeFoodImage(ctx context.Context, imageURL string) (*AnalysisResult, error)
}

// RecipeSuggester turns a free-text ingredient list into recipe suggestions.
type RecipeSuggester interface {
	SuggestRecipes(ctx context.Context, ingredients string) ([]Recipe, error)
}

// MealStore is the persistent-store boundary for the meal diary.
type MealStore interface {
	Create(ctx context.Context, userID uint, rec MealRecord) error
	Delete(ctx context.Context, userID uint, id string) error
	ListByUser(ctx context.Context, userID uint) ([]MealRecord, error)
}

// RecipeStore is the persistent-store boundary for saved recipes.
type RecipeStore interface {
	Save(ctx context.Context, userID uint, recipe Recipe) error
	DeleteByName(ctx context.Context, userID uint, name string) error
	ListByUser(ctx context.Context, userID uint) ([]Recipe, error)
}

// ProfileStore persists the user profile, including goals and the
// subscription flag (the only persisted entitlement input).
type ProfileStore interface {
	GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*UserProfile, error)
	UpdateGoals(ctx context.Context, userID uint, goals MacroGoals) error
	SetSubscriptionActive(ctx context.Context, userID uint, active bool) error
}

// Notifier surfaces transient, user-visible notifications. Store failures and
// rollbacks report through this boundary instead of crashing the flow.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, message string)
}
