package services

import (
	"context"
	"time"

	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/entitlement"
	apperrors "github.com/nutriplus/nutribot/internal/errors"
	"github.com/nutriplus/nutribot/internal/logger"
)

// RecipeService finds recipe suggestions and manages the user's favorites.
type RecipeService struct {
	suggester domain.RecipeSuggester
	store     domain.RecipeStore
}

func NewRecipeService(suggester domain.RecipeSuggester, store domain.RecipeStore) *RecipeService {
	return &RecipeService{suggester: suggester, store: store}
}

// Suggest asks the collaborator for recipes from a free-text ingredient list.
// Failures are recoverable; the caller offers a manual retry.
func (s *RecipeService) Suggest(ctx context.Context, ingredients string) ([]domain.Recipe, error) {
	if ingredients == "" {
		return nil, apperrors.NewValidationError("ingredient list is required")
	}

	recipes, err := s.suggester.SuggestRecipes(ctx, ingredients)
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "recipe suggestion")
	}
	if len(recipes) == 0 {
		return nil, apperrors.ErrNoRecipes
	}
	return recipes, nil
}

// Saved lists the user's favorited recipes.
func (s *RecipeService) Saved(ctx context.Context, userID uint) ([]domain.Recipe, error) {
	recipes, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return recipes, nil
}

// ToggleSave favorites the recipe, or removes it when already saved (matched
// by name). The toggle is an entitlement-gated write.
func (s *RecipeService) ToggleSave(ctx context.Context, profile *domain.UserProfile, recipe domain.Recipe) (saved bool, err error) {
	state := entitlement.Evaluate(profile.CreatedAt, time.Now(), profile.SubscriptionActive)
	if !state.AllowsWrites() {
		return false, apperrors.ErrSubscriptionRequired
	}

	existing, err := s.store.ListByUser(ctx, profile.ID)
	if err != nil {
		return false, apperrors.NewStoreError(err)
	}

	for _, r := range existing {
		if r.Name == recipe.Name {
			if err := s.store.DeleteByName(ctx, profile.ID, recipe.Name); err != nil {
				return true, apperrors.NewStoreError(err)
			}
			logger.Infof("User %d removed saved recipe %q", profile.ID, recipe.Name)
			return false, nil
		}
	}

	if err := s.store.Save(ctx, profile.ID, recipe); err != nil {
		return false, apperrors.NewStoreError(err)
	}
	logger.Infof("User %d saved recipe %q", profile.ID, recipe.Name)
	return true, nil
}
