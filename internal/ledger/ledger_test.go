package ledger

import (
	"slices"
	"testing"
	"time"

	"github.com/nutriplus/nutribot/internal/domain"
)

func meal(id, name string, calories float64) domain.MealRecord {
	return domain.MealRecord{
		ID:        id,
		Name:      name,
		Timestamp: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
		Calories:  calories,
	}
}

func TestAddAssignsID(t *testing.T) {
	l := New()

	a, err := l.Add(meal("", "almoço", 500))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.ID == "" {
		t.Fatal("expected a generated identifier")
	}

	b, err := l.Add(meal("", "jantar", 700))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.ID == b.ID {
		t.Fatal("generated identifiers must be unique")
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	l := New()
	if _, err := l.Add(meal("m1", "almoço", 500)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := l.Add(meal("m1", "outro", 100)); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
}

func TestRemoveMissingIsNoOp(t *testing.T) {
	l := New()
	l.Add(meal("m1", "almoço", 500))

	if _, _, ok := l.Remove("nope"); ok {
		t.Fatal("removing an absent id must report false")
	}
	if l.Len() != 1 {
		t.Fatalf("ledger length changed on no-op remove: %d", l.Len())
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	l := New()
	l.Add(meal("m1", "café", 300))
	before := l.Snapshot()

	added, err := l.Add(meal("", "almoço", 650))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, _, ok := l.Remove(added.ID); !ok {
		t.Fatal("expected remove to succeed")
	}

	after := l.Snapshot()
	if !slices.EqualFunc(before, after, func(a, b domain.MealRecord) bool { return a.ID == b.ID }) {
		t.Fatalf("add+remove did not restore the ledger: before %v, after %v", before, after)
	}
}

func TestReinsertRestoresPosition(t *testing.T) {
	l := New()
	l.Add(meal("m1", "café", 300))
	l.Add(meal("m2", "almoço", 650))
	l.Add(meal("m3", "jantar", 500))

	rec, idx, ok := l.Remove("m2")
	if !ok || idx != 1 {
		t.Fatalf("Remove = (%v, %d, %v)", rec.ID, idx, ok)
	}

	l.Reinsert(rec, idx)

	var ids []string
	for r := range l.All() {
		ids = append(ids, r.ID)
	}
	want := []string{"m1", "m2", "m3"}
	if !slices.Equal(ids, want) {
		t.Fatalf("order after reinsert = %v, want %v", ids, want)
	}
}

func TestAllIsRestartable(t *testing.T) {
	l := New()
	l.Add(meal("m1", "café", 300))
	l.Add(meal("m2", "almoço", 650))

	seq := l.All()
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("sequence must be restartable: %d then %d records", len(first), len(second))
	}
}

func TestAllSnapshotStableUnderMutation(t *testing.T) {
	l := New()
	l.Add(meal("m1", "café", 300))

	seq := l.All()
	l.Add(meal("m2", "almoço", 650))

	if n := len(slices.Collect(seq)); n != 1 {
		t.Fatalf("sequence taken before mutation must not observe it, got %d records", n)
	}
}
