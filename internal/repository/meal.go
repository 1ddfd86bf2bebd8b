package repository

import (
	"context"

	"github.com/nutriplus/nutribot/internal/database"
	"github.com/nutriplus/nutribot/internal/domain"
	"gorm.io/gorm"
)

// MealRepository is the persistent-store side of the meal diary. The meal
// service writes to it after the optimistic local mutation.
type MealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a new meal repository
func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{db: db}
}

// Create stores one diary entry under the ledger-assigned identifier.
func (r *MealRepository) Create(ctx context.Context, userID uint, rec domain.MealRecord) error {
	meal := &database.Meal{
		ID:          rec.ID,
		UserID:      userID,
		Name:        rec.Name,
		Timestamp:   rec.Timestamp,
		Calories:    rec.Calories,
		Protein:     rec.Protein,
		Carbs:       rec.Carbs,
		Fat:         rec.Fat,
		Portion:     rec.Portion,
		ImageURL:    rec.ImageURL,
		Ingredients: rec.Ingredients,
	}
	return r.db.WithContext(ctx).Create(meal).Error
}

// Delete removes one diary entry by identifier.
func (r *MealRepository) Delete(ctx context.Context, userID uint, id string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&database.Meal{}).Error
}

// ListByUser returns the user's full diary in insertion order.
func (r *MealRepository) ListByUser(ctx context.Context, userID uint) ([]domain.MealRecord, error) {
	var meals []database.Meal
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&meals).Error; err != nil {
		return nil, err
	}

	records := make([]domain.MealRecord, 0, len(meals))
	for _, m := range meals {
		records = append(records, domain.MealRecord{
			ID:          m.ID,
			Name:        m.Name,
			Timestamp:   m.Timestamp,
			Calories:    m.Calories,
			Protein:     m.Protein,
			Carbs:       m.Carbs,
			Fat:         m.Fat,
			Portion:     m.Portion,
			ImageURL:    m.ImageURL,
			Ingredients: m.Ingredients,
		})
	}
	return records, nil
}
