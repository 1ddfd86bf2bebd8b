package repository

import (
	"context"
	"errors"

	"github.com/nutriplus/nutribot/internal/database"
	"github.com/nutriplus/nutribot/internal/domain"
	"gorm.io/gorm"
)

// UserRepository persists user profiles, goals and the subscription flag.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate gets an existing profile or creates a new one. Creation is the
// account-creation instant the trial period is measured from.
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.UserProfile, error) {
	var user database.User
	result := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}
		user = database.User{
			TelegramID: telegramID,
			Username:   username,
			FirstName:  firstName,
			LastName:   lastName,
		}
		if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
	}
	return toProfile(&user), nil
}

// UpdateGoals replaces the whole goal set atomically.
func (r *UserRepository) UpdateGoals(ctx context.Context, userID uint, goals domain.MacroGoals) error {
	return r.db.WithContext(ctx).Model(&database.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"goal_calories": goals.Calories,
		"goal_protein":  goals.Protein,
		"goal_carbs":    goals.Carbs,
		"goal_fat":      goals.Fat,
	}).Error
}

// SetSubscriptionActive flips the persisted subscription flag.
func (r *UserRepository) SetSubscriptionActive(ctx context.Context, userID uint, active bool) error {
	return r.db.WithContext(ctx).Model(&database.User{}).Where("id = ?", userID).
		Update("subscription_active", active).Error
}

func toProfile(u *database.User) *domain.UserProfile {
	return &domain.UserProfile{
		ID:                 u.ID,
		TelegramID:         u.TelegramID,
		Username:           u.Username,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		CreatedAt:          u.CreatedAt,
		SubscriptionActive: u.SubscriptionActive,
		Goals: domain.MacroGoals{
			Calories: u.GoalCalories,
			Protein:  u.GoalProtein,
			Carbs:    u.GoalCarbs,
			Fat:      u.GoalFat,
		},
	}
}
