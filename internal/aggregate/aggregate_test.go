package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/ledger"
)

func mealAt(ts time.Time, calories float64) domain.MealRecord {
	return domain.MealRecord{
		Name:      "refeição",
		Timestamp: ts,
		Calories:  calories,
		Protein:   calories / 20,
		Carbs:     calories / 10,
		Fat:       calories / 30,
	}
}

func newLedger(t *testing.T, meals ...domain.MealRecord) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	for _, m := range meals {
		if _, err := l.Add(m); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return l
}

func TestDailyTotalsScenario(t *testing.T) {
	day10 := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	day11 := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)

	l := newLedger(t,
		mealAt(day10, 500),
		mealAt(day10.Add(4*time.Hour), 700),
		mealAt(day11, 300),
	)

	totals := DailyTotals(l.All(), day10)
	if totals.Calories != 1200 {
		t.Fatalf("calories on 2024-01-10 = %v, want 1200", totals.Calories)
	}

	totals = DailyTotals(l.All(), day11)
	if totals.Calories != 300 {
		t.Fatalf("calories on 2024-01-11 = %v, want 300", totals.Calories)
	}
}

func TestDailyTotalsOrderIndependent(t *testing.T) {
	ref := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	meals := []domain.MealRecord{
		mealAt(ref.Add(-3*time.Hour), 400),
		mealAt(ref, 550),
		mealAt(ref.Add(5*time.Hour), 250),
		mealAt(ref.AddDate(0, 0, -1), 999), // other day, must be ignored
	}

	want := DailyTotals(newLedger(t, meals...).All(), ref)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]domain.MealRecord, len(meals))
		copy(shuffled, meals)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		for j := range shuffled {
			shuffled[j].ID = "" // fresh ids per ledger
		}
		got := DailyTotals(newLedger(t, shuffled...).All(), ref)
		if got != want {
			t.Fatalf("totals depend on record order: %v vs %v", got, want)
		}
	}
}

func TestDailyTotalsLocalDayBoundary(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 02:00 UTC on Jan 11 = 23:00 Jan 10 local (UTC-3).
	lateMeal := mealAt(time.Date(2024, 1, 11, 2, 0, 0, 0, time.UTC), 480)
	ref := time.Date(2024, 1, 10, 12, 0, 0, 0, loc)

	totals := DailyTotals(newLedger(t, lateMeal).All(), ref)
	if totals.Calories != 480 {
		t.Fatalf("late-evening meal not bucketed into its local day: %v", totals.Calories)
	}

	nextDay := time.Date(2024, 1, 11, 12, 0, 0, 0, loc)
	if got := DailyTotals(newLedger(t, lateMeal).All(), nextDay); got.Calories != 0 {
		t.Fatalf("meal double-counted into the next local day: %v", got.Calories)
	}
}

func TestDaySeriesShape(t *testing.T) {
	now := time.Date(2024, 1, 11, 18, 0, 0, 0, time.UTC)
	l := newLedger(t,
		mealAt(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), 500),
		mealAt(time.Date(2024, 1, 10, 13, 0, 0, 0, time.UTC), 700),
		mealAt(time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC), 300),
	)

	buckets := Series(l.All(), ModeDays, now)
	if len(buckets) != 7 {
		t.Fatalf("day series has %d buckets, want 7", len(buckets))
	}
	if buckets[6].Label != "Hoje" {
		t.Errorf("most recent bucket label = %q, want Hoje", buckets[6].Label)
	}
	for i := 1; i < len(buckets); i++ {
		if !buckets[i].Start.After(buckets[i-1].Start) {
			t.Fatal("buckets must be ordered oldest first")
		}
	}

	if buckets[6].Calories != 300 {
		t.Errorf("2024-01-11 bucket = %v, want 300", buckets[6].Calories)
	}
	if buckets[5].Calories != 1200 {
		t.Errorf("2024-01-10 bucket = %v, want 1200", buckets[5].Calories)
	}

	// 2024-01-05 is a Friday.
	if buckets[0].Label != "Sex" {
		t.Errorf("oldest bucket label = %q, want Sex", buckets[0].Label)
	}
}

func TestDaySeriesMatchesDailyTotals(t *testing.T) {
	now := time.Date(2024, 1, 11, 18, 0, 0, 0, time.UTC)
	l := newLedger(t,
		mealAt(now.AddDate(0, 0, -6), 410),
		mealAt(now.AddDate(0, 0, -3), 820),
		mealAt(now.Add(-2*time.Hour), 615),
		mealAt(now, 200),
	)

	for _, b := range Series(l.All(), ModeDays, now) {
		daily := DailyTotals(l.All(), b.Start)
		if b.Calories != daily.Calories {
			t.Fatalf("bucket %s = %v, dailyTotals = %v", b.Label, b.Calories, daily.Calories)
		}
	}
}

func TestWeekSeriesShapeAndSeams(t *testing.T) {
	// Wednesday 2024-01-10; current week starts Sunday 2024-01-07.
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	weekStart := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	l := newLedger(t,
		mealAt(weekStart, 100),                     // exactly on the seam: current week only
		mealAt(weekStart.Add(-time.Second), 250),   // last instant of the prior week
		mealAt(weekStart.AddDate(0, 0, -14), 900),  // two weeks ago
		mealAt(now, 300),
	)

	buckets := Series(l.All(), ModeWeeks, now)
	if len(buckets) != 4 {
		t.Fatalf("week series has %d buckets, want 4", len(buckets))
	}

	wantLabels := []string{"3 sem atrás", "2 sem atrás", "Passada", "Atual"}
	for i, want := range wantLabels {
		if buckets[i].Label != want {
			t.Errorf("bucket %d label = %q, want %q", i, buckets[i].Label, want)
		}
	}

	if got := buckets[3].Calories; got != 400 {
		t.Errorf("current week = %v, want 400 (seam meal counted once, here)", got)
	}
	if got := buckets[2].Calories; got != 250 {
		t.Errorf("last week = %v, want 250", got)
	}
	if got := buckets[1].Calories; got != 900 {
		t.Errorf("two weeks ago = %v, want 900", got)
	}

	var grand float64
	for _, b := range buckets {
		grand += b.Calories
	}
	if grand != 1550 {
		t.Errorf("grand total = %v, want 1550 (no double counting)", grand)
	}
}

func TestSeriesDeterministic(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	l := newLedger(t,
		mealAt(now, 300),
		mealAt(now.AddDate(0, 0, -2), 450),
	)

	for _, mode := range []Mode{ModeDays, ModeWeeks} {
		a := Series(l.All(), mode, now)
		b := Series(l.All(), mode, now)
		if len(a) != len(b) {
			t.Fatal("series length differs between identical calls")
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("series not deterministic at bucket %d: %+v vs %+v", i, a[i], b[i])
			}
		}
	}
}
