package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nutriplus/nutribot/internal/domain"
	apperrors "github.com/nutriplus/nutribot/internal/errors"
)

type fakeMealStore struct {
	mu         sync.Mutex
	records    []domain.MealRecord
	failCreate bool
	failDelete bool
}

func (f *fakeMealStore) Create(ctx context.Context, userID uint, rec domain.MealRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("remote rejected insert")
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeMealStore) Delete(ctx context.Context, userID uint, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errors.New("remote rejected delete")
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeMealStore) ListByUser(ctx context.Context, userID uint) ([]domain.MealRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.MealRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Notify(ctx context.Context, chatID int64, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func trialProfile() *domain.UserProfile {
	return &domain.UserProfile{
		ID:         1,
		TelegramID: 100,
		CreatedAt:  time.Now().Add(-24 * time.Hour),
	}
}

func lockedProfile() *domain.UserProfile {
	return &domain.UserProfile{
		ID:         2,
		TelegramID: 200,
		CreatedAt:  time.Now().Add(-10 * 24 * time.Hour),
	}
}

func testMeal(calories float64) domain.MealRecord {
	return domain.MealRecord{
		Name:      "almoço",
		Timestamp: time.Now(),
		Calories:  calories,
		Protein:   30,
		Carbs:     50,
		Fat:       15,
	}
}

func TestAddMealPersists(t *testing.T) {
	store := &fakeMealStore{}
	notifier := &fakeNotifier{}
	svc := NewMealService(store, notifier)

	added, err := svc.AddMeal(context.Background(), trialProfile(), testMeal(650))
	if err != nil {
		t.Fatalf("AddMeal: %v", err)
	}
	if added.ID == "" {
		t.Fatal("expected an assigned identifier")
	}
	svc.Wait()

	if len(store.records) != 1 || store.records[0].ID != added.ID {
		t.Fatalf("store not updated: %+v", store.records)
	}
	if notifier.count() != 0 {
		t.Fatalf("unexpected notifications: %v", notifier.messages)
	}
}

func TestAddMealRollsBackOnStoreFailure(t *testing.T) {
	store := &fakeMealStore{failCreate: true}
	notifier := &fakeNotifier{}
	svc := NewMealService(store, notifier)
	profile := trialProfile()

	if _, err := svc.AddMeal(context.Background(), profile, testMeal(650)); err != nil {
		t.Fatalf("optimistic add must succeed locally: %v", err)
	}
	svc.Wait()

	totals, err := svc.DailyTotals(context.Background(), profile.ID, time.Now())
	if err != nil {
		t.Fatalf("DailyTotals: %v", err)
	}
	if totals.Calories != 0 {
		t.Fatalf("rolled-back meal still counted: %v kcal", totals.Calories)
	}
	if notifier.count() != 1 {
		t.Fatalf("expected one failure notification, got %d", notifier.count())
	}
}

func TestRemoveMealRestoresOnStoreFailure(t *testing.T) {
	store := &fakeMealStore{}
	notifier := &fakeNotifier{}
	svc := NewMealService(store, notifier)
	profile := trialProfile()
	ctx := context.Background()

	first, _ := svc.AddMeal(ctx, profile, testMeal(300))
	second, _ := svc.AddMeal(ctx, profile, testMeal(650))
	third, _ := svc.AddMeal(ctx, profile, testMeal(500))
	svc.Wait()

	store.failDelete = true
	if err := svc.RemoveMeal(ctx, profile, second.ID); err != nil {
		t.Fatalf("optimistic remove must succeed locally: %v", err)
	}
	svc.Wait()

	meals, err := svc.MealsOn(ctx, profile.ID, time.Now())
	if err != nil {
		t.Fatalf("MealsOn: %v", err)
	}
	if len(meals) != 3 {
		t.Fatalf("meal not restored after failed delete: %d records", len(meals))
	}
	wantOrder := []string{first.ID, second.ID, third.ID}
	for i, id := range wantOrder {
		if meals[i].ID != id {
			t.Fatalf("restored meal out of position: got %v", []string{meals[0].ID, meals[1].ID, meals[2].ID})
		}
	}
	if notifier.count() != 1 {
		t.Fatalf("expected one failure notification, got %d", notifier.count())
	}
}

func TestRemoveMissingMealReported(t *testing.T) {
	svc := NewMealService(&fakeMealStore{}, &fakeNotifier{})

	err := svc.RemoveMeal(context.Background(), trialProfile(), "missing")
	if err == nil {
		t.Fatal("expected a reported no-op for a missing id")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeValidation {
		t.Fatalf("missing meal must be a validation-level report, got %v", err)
	}
}

func TestWritesRefusedWhenLocked(t *testing.T) {
	svc := NewMealService(&fakeMealStore{}, &fakeNotifier{})
	ctx := context.Background()

	_, err := svc.AddMeal(ctx, lockedProfile(), testMeal(650))
	if !errors.Is(err, apperrors.ErrSubscriptionRequired) {
		t.Fatalf("locked add: got %v, want subscription-required refusal", err)
	}

	err = svc.RemoveMeal(ctx, lockedProfile(), "any")
	if !errors.Is(err, apperrors.ErrSubscriptionRequired) {
		t.Fatalf("locked remove: got %v, want subscription-required refusal", err)
	}
}

func TestReadsNeverGated(t *testing.T) {
	store := &fakeMealStore{records: []domain.MealRecord{
		{ID: "m1", Name: "café", Timestamp: time.Now(), Calories: 420},
	}}
	svc := NewMealService(store, &fakeNotifier{})

	totals, err := svc.DailyTotals(context.Background(), lockedProfile().ID, time.Now())
	if err != nil {
		t.Fatalf("reads must work while locked: %v", err)
	}
	if totals.Calories != 420 {
		t.Fatalf("totals = %v, want 420", totals.Calories)
	}
}

func TestSubscribedBypassesTrial(t *testing.T) {
	svc := NewMealService(&fakeMealStore{}, &fakeNotifier{})
	profile := lockedProfile()
	profile.SubscriptionActive = true

	if _, err := svc.AddMeal(context.Background(), profile, testMeal(650)); err != nil {
		t.Fatalf("subscriber write refused: %v", err)
	}
	svc.Wait()
}
