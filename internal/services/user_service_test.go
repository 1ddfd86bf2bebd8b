package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/entitlement"
	apperrors "github.com/nutriplus/nutribot/internal/errors"
)

type fakeProfileStore struct {
	failUpdate  bool
	savedGoals  *domain.MacroGoals
	savedActive *bool
}

func (f *fakeProfileStore) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.UserProfile, error) {
	return &domain.UserProfile{ID: 1, TelegramID: telegramID, Username: username, CreatedAt: time.Now()}, nil
}

func (f *fakeProfileStore) UpdateGoals(ctx context.Context, userID uint, goals domain.MacroGoals) error {
	if f.failUpdate {
		return errors.New("update rejected")
	}
	f.savedGoals = &goals
	return nil
}

func (f *fakeProfileStore) SetSubscriptionActive(ctx context.Context, userID uint, active bool) error {
	f.savedActive = &active
	return nil
}

func validGoals() domain.MacroGoals {
	return domain.MacroGoals{Calories: 2000, Protein: 150, Carbs: 250, Fat: 70}
}

func TestUpdateGoalsFirstRunAllowedWhenLocked(t *testing.T) {
	store := &fakeProfileStore{}
	svc := NewUserService(store)
	profile := &domain.UserProfile{ID: 1, CreatedAt: time.Now().Add(-10 * 24 * time.Hour)}

	if got := svc.Entitlement(profile).Status; got != entitlement.StatusLocked {
		t.Fatalf("precondition: status = %v, want locked", got)
	}
	if err := svc.UpdateGoals(context.Background(), profile, validGoals()); err != nil {
		t.Fatalf("first-run goal setup must work even when locked: %v", err)
	}
	if store.savedGoals == nil || store.savedGoals.Calories != 2000 {
		t.Fatalf("goals not persisted: %+v", store.savedGoals)
	}
}

func TestUpdateGoalsGuardedAfterSetup(t *testing.T) {
	svc := NewUserService(&fakeProfileStore{})
	profile := &domain.UserProfile{
		ID:        1,
		CreatedAt: time.Now().Add(-10 * 24 * time.Hour),
		Goals:     validGoals(),
	}

	err := svc.UpdateGoals(context.Background(), profile, domain.MacroGoals{Calories: 1800})
	if !errors.Is(err, apperrors.ErrSubscriptionRequired) {
		t.Fatalf("locked goal change: got %v, want subscription-required refusal", err)
	}
	if profile.Goals.Calories != 2000 {
		t.Fatalf("refused update must not touch the profile: %+v", profile.Goals)
	}
}

func TestUpdateGoalsRejectsZeroCalories(t *testing.T) {
	svc := NewUserService(&fakeProfileStore{})
	profile := &domain.UserProfile{ID: 1, CreatedAt: time.Now()}

	err := svc.UpdateGoals(context.Background(), profile, domain.MacroGoals{Calories: 0, Protein: 100})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeValidation {
		t.Fatalf("zero calories must fail validation, got %v", err)
	}
}

func TestUpdateGoalsRollsBackOnStoreFailure(t *testing.T) {
	store := &fakeProfileStore{failUpdate: true}
	svc := NewUserService(store)
	profile := &domain.UserProfile{ID: 1, CreatedAt: time.Now(), Goals: validGoals()}

	err := svc.UpdateGoals(context.Background(), profile, domain.MacroGoals{Calories: 1800, Protein: 120, Carbs: 200, Fat: 60})
	if err == nil {
		t.Fatal("expected store failure to surface")
	}
	if profile.Goals.Calories != 2000 {
		t.Fatalf("profile goals not rolled back: %+v", profile.Goals)
	}
}

func TestActivateSubscriptionUnlocks(t *testing.T) {
	store := &fakeProfileStore{}
	svc := NewUserService(store)
	profile := &domain.UserProfile{ID: 1, CreatedAt: time.Now().Add(-10 * 24 * time.Hour)}

	if err := svc.ActivateSubscription(context.Background(), profile); err != nil {
		t.Fatalf("ActivateSubscription: %v", err)
	}
	if store.savedActive == nil || !*store.savedActive {
		t.Fatal("subscription flag not persisted")
	}
	if got := svc.Entitlement(profile).Status; got != entitlement.StatusSubscribed {
		t.Fatalf("status after activation = %v, want subscribed", got)
	}
}
