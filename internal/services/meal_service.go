package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nutriplus/nutribot/internal/aggregate"
	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/entitlement"
	apperrors "github.com/nutriplus/nutribot/internal/errors"
	"github.com/nutriplus/nutribot/internal/ledger"
	"github.com/nutriplus/nutribot/internal/logger"
	"github.com/nutriplus/nutribot/internal/utils"
)

// MealService owns the per-user meal ledgers. Mutations are optimistic: the
// local ledger changes first, the store write runs asynchronously, and a store
// failure triggers the compensating inverse plus a transient notification.
// There is no automatic retry.
type MealService struct {
	store    domain.MealStore
	notifier domain.Notifier

	mu      sync.Mutex
	ledgers map[uint]*ledger.Ledger

	// In-flight store confirmations; drained on shutdown and in tests.
	inflight sync.WaitGroup
}

func NewMealService(store domain.MealStore, notifier domain.Notifier) *MealService {
	return &MealService{
		store:    store,
		notifier: notifier,
		ledgers:  make(map[uint]*ledger.Ledger),
	}
}

// ledgerFor hydrates the user's ledger from the store once and caches it; the
// local copy is the UI-visible truth from then on.
func (s *MealService) ledgerFor(ctx context.Context, userID uint) (*ledger.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.ledgers[userID]; ok {
		return l, nil
	}

	records, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	l, err := ledger.FromRecords(records)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.ledgers[userID] = l
	return l, nil
}

func (s *MealService) guard(profile *domain.UserProfile) error {
	state := entitlement.Evaluate(profile.CreatedAt, time.Now(), profile.SubscriptionActive)
	if !state.AllowsWrites() {
		return apperrors.ErrSubscriptionRequired
	}
	return nil
}

// AddMeal appends a record to the user's ledger and persists it
// asynchronously. On store failure the record is removed again and the user
// is notified.
func (s *MealService) AddMeal(ctx context.Context, profile *domain.UserProfile, rec domain.MealRecord) (domain.MealRecord, error) {
	if err := s.guard(profile); err != nil {
		return domain.MealRecord{}, err
	}
	if rec.Name == "" {
		return domain.MealRecord{}, apperrors.NewValidationError("meal name is required")
	}
	if rec.Calories < 0 || rec.Protein < 0 || rec.Carbs < 0 || rec.Fat < 0 {
		return domain.MealRecord{}, apperrors.NewValidationError("nutrition values must be non-negative")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	l, err := s.ledgerFor(ctx, profile.ID)
	if err != nil {
		return domain.MealRecord{}, err
	}

	added, err := l.Add(rec)
	if err != nil {
		return domain.MealRecord{}, apperrors.NewInternalError(err)
	}

	userID := profile.ID
	chatID := profile.TelegramID
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		// The user's flow has moved on; confirmation gets its own context.
		ctx := context.Background()
		if err := s.store.Create(ctx, userID, added); err != nil {
			logger.Errorf("Meal save failed for user %d, rolling back: %v", userID, err)
			l.Remove(added.ID)
			s.notifier.Notify(ctx, chatID, "⚠️ Não foi possível salvar a refeição. Ela foi removida do diário.")
		}
	}()

	return added, nil
}

// AddFromAnalysis turns a confirmed photo analysis into a diary entry.
func (s *MealService) AddFromAnalysis(ctx context.Context, profile *domain.UserProfile, result *domain.AnalysisResult, imageURL string) (domain.MealRecord, error) {
	return s.AddMeal(ctx, profile, domain.MealRecord{
		Name:        result.FoodName,
		Timestamp:   time.Now(),
		Calories:    result.Calories,
		Protein:     result.Protein,
		Carbs:       result.Carbs,
		Fat:         result.Fat,
		Portion:     result.Portion,
		ImageURL:    imageURL,
		Ingredients: result.Ingredients,
	})
}

// AddFromRecipe adds a saved or suggested recipe to the diary as one portion.
func (s *MealService) AddFromRecipe(ctx context.Context, profile *domain.UserProfile, recipe domain.Recipe) (domain.MealRecord, error) {
	return s.AddMeal(ctx, profile, domain.MealRecord{
		Name:        recipe.Name,
		Timestamp:   time.Now(),
		Calories:    recipe.Calories,
		Protein:     recipe.Protein,
		Carbs:       recipe.Carbs,
		Fat:         recipe.Fat,
		Portion:     "1 porção",
		Ingredients: recipe.Ingredients,
	})
}

// RemoveMeal deletes a record optimistically; if the store rejects the
// delete, the record is reinserted at its original position.
func (s *MealService) RemoveMeal(ctx context.Context, profile *domain.UserProfile, id string) error {
	if err := s.guard(profile); err != nil {
		return err
	}

	l, err := s.ledgerFor(ctx, profile.ID)
	if err != nil {
		return err
	}

	removed, index, ok := l.Remove(id)
	if !ok {
		return apperrors.NewValidationError(fmt.Sprintf("meal %s not found", id))
	}

	userID := profile.ID
	chatID := profile.TelegramID
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx := context.Background()
		if err := s.store.Delete(ctx, userID, id); err != nil {
			logger.Errorf("Meal delete failed for user %d, restoring: %v", userID, err)
			l.Reinsert(removed, index)
			s.notifier.Notify(ctx, chatID, "⚠️ Não foi possível remover a refeição. Ela foi restaurada no diário.")
		}
	}()

	return nil
}

// DailyTotals sums the user's intake for the local calendar day of ref.
// Reads are never entitlement-gated.
func (s *MealService) DailyTotals(ctx context.Context, userID uint, ref time.Time) (domain.MacroTotals, error) {
	l, err := s.ledgerFor(ctx, userID)
	if err != nil {
		return domain.MacroTotals{}, err
	}
	return aggregate.DailyTotals(l.All(), ref), nil
}

// Series builds the 7-day or 4-week chart buckets.
func (s *MealService) Series(ctx context.Context, userID uint, mode aggregate.Mode, now time.Time) ([]aggregate.Bucket, error) {
	l, err := s.ledgerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return aggregate.Series(l.All(), mode, now), nil
}

// MealsOn lists the records of one local calendar day in insertion order.
func (s *MealService) MealsOn(ctx context.Context, userID uint, ref time.Time) ([]domain.MealRecord, error) {
	l, err := s.ledgerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []domain.MealRecord
	for m := range l.All() {
		if utils.SameLocalDay(m.Timestamp, ref) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Wait blocks until every in-flight store confirmation has settled.
func (s *MealService) Wait() {
	s.inflight.Wait()
}
