package repository

import (
	"context"

	"github.com/nutriplus/nutribot/internal/database"
	"github.com/nutriplus/nutribot/internal/domain"
	"gorm.io/gorm"
)

// RecipeRepository persists favorited recipes, matched by name per user as in
// the recipe toggle flow.
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Save stores one favorited recipe.
func (r *RecipeRepository) Save(ctx context.Context, userID uint, recipe domain.Recipe) error {
	saved := &database.SavedRecipe{
		UserID:       userID,
		Name:         recipe.Name,
		Description:  recipe.Description,
		TimeToCook:   recipe.TimeToCook,
		Difficulty:   recipe.Difficulty,
		Calories:     recipe.Calories,
		Protein:      recipe.Protein,
		Carbs:        recipe.Carbs,
		Fat:          recipe.Fat,
		Ingredients:  recipe.Ingredients,
		Instructions: recipe.Instructions,
	}
	return r.db.WithContext(ctx).Create(saved).Error
}

// DeleteByName removes a favorited recipe by its name.
func (r *RecipeRepository) DeleteByName(ctx context.Context, userID uint, name string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		Delete(&database.SavedRecipe{}).Error
}

// ListByUser returns every recipe the user has favorited.
func (r *RecipeRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Recipe, error) {
	var saved []database.SavedRecipe
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&saved).Error; err != nil {
		return nil, err
	}

	recipes := make([]domain.Recipe, 0, len(saved))
	for _, s := range saved {
		recipes = append(recipes, domain.Recipe{
			Name:         s.Name,
			Description:  s.Description,
			TimeToCook:   s.TimeToCook,
			Difficulty:   s.Difficulty,
			Calories:     s.Calories,
			Protein:      s.Protein,
			Carbs:        s.Carbs,
			Fat:          s.Fat,
			Ingredients:  s.Ingredients,
			Instructions: s.Instructions,
		})
	}
	return recipes, nil
}
