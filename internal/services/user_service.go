package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/entitlement"
	apperrors "github.com/nutriplus/nutribot/internal/errors"
	"github.com/nutriplus/nutribot/internal/goals"
	"github.com/nutriplus/nutribot/internal/logger"
)

// UserService owns the profile: identity, goal set and subscription flag.
// Every incoming update re-registers the user, which doubles as the
// session-change event for entitlement re-evaluation.
type UserService struct {
	profiles domain.ProfileStore
}

func NewUserService(profiles domain.ProfileStore) *UserService {
	return &UserService{profiles: profiles}
}

// RegisterUser gets or creates the profile for a telegram user.
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetOrCreate(ctx, telegramID, username, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return profile, nil
}

// Entitlement derives the current access tier. Never cached: the state is
// recomputed from the creation instant and subscription flag on each call.
func (s *UserService) Entitlement(profile *domain.UserProfile) entitlement.State {
	return entitlement.Evaluate(profile.CreatedAt, time.Now(), profile.SubscriptionActive)
}

// UpdateGoals replaces the whole goal set. The write is guarded unless it is
// the first-run setup (unconfigured goals), which is allowed even when locked
// so a new user can always finish onboarding.
func (s *UserService) UpdateGoals(ctx context.Context, profile *domain.UserProfile, newGoals domain.MacroGoals) error {
	if !goals.Validate(newGoals) {
		return apperrors.NewValidationError("goal targets must be non-negative and calories positive")
	}

	firstRun := !profile.Goals.Configured()
	if !firstRun && !s.Entitlement(profile).AllowsWrites() {
		return apperrors.ErrSubscriptionRequired
	}

	previous := profile.Goals
	profile.Goals = newGoals

	if err := s.profiles.UpdateGoals(ctx, profile.ID, newGoals); err != nil {
		profile.Goals = previous
		return apperrors.NewStoreError(err)
	}

	logger.Infof("User %d updated goals: %.0f kcal", profile.ID, newGoals.Calories)
	return nil
}

// ActivateSubscription flips the persisted subscription flag after a
// confirmed upgrade and unlocks the profile optimistically.
func (s *UserService) ActivateSubscription(ctx context.Context, profile *domain.UserProfile) error {
	if err := s.profiles.SetSubscriptionActive(ctx, profile.ID, true); err != nil {
		return apperrors.NewStoreError(err)
	}
	profile.SubscriptionActive = true
	logger.Infof("User %d activated subscription", profile.ID)
	return nil
}
