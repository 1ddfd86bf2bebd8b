package ledger

import (
	"fmt"
	"iter"
	"sync"

	"github.com/google/uuid"
	"github.com/nutriplus/nutribot/internal/domain"
)

// Ledger is the ordered, append/remove-only collection of one user's meal
// records and the single source of truth for nutrition history. Records are
// never mutated in place.
type Ledger struct {
	mu      sync.RWMutex
	records []domain.MealRecord
	ids     map[string]struct{}
}

func New() *Ledger {
	return &Ledger{ids: make(map[string]struct{})}
}

// FromRecords builds a ledger hydrated from the persistent store, keeping the
// given insertion order.
func FromRecords(records []domain.MealRecord) (*Ledger, error) {
	l := New()
	for _, rec := range records {
		if _, err := l.Add(rec); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add appends a record, assigning a fresh UUID when the caller did not supply
// an identifier. Duplicate identifiers are rejected.
func (l *Ledger) Add(rec domain.MealRecord) (domain.MealRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if _, exists := l.ids[rec.ID]; exists {
		return domain.MealRecord{}, fmt.Errorf("duplicate meal id %s", rec.ID)
	}

	l.records = append(l.records, rec)
	l.ids[rec.ID] = struct{}{}
	return rec, nil
}

// Remove deletes the record with the given identifier and returns it together
// with the position it occupied. A missing identifier is a reported no-op.
func (l *Ledger) Remove(id string) (domain.MealRecord, int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.ids[id]; !exists {
		return domain.MealRecord{}, 0, false
	}
	for i, rec := range l.records {
		if rec.ID == id {
			l.records = append(l.records[:i:i], l.records[i+1:]...)
			delete(l.ids, id)
			return rec, i, true
		}
	}
	return domain.MealRecord{}, 0, false
}

// Reinsert puts a record back at its original position. It is the
// compensating inverse for a remove whose store confirmation failed.
func (l *Ledger) Reinsert(rec domain.MealRecord, index int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.ids[rec.ID]; exists {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(l.records) {
		index = len(l.records)
	}
	l.records = append(l.records[:index], append([]domain.MealRecord{rec}, l.records[index:]...)...)
	l.ids[rec.ID] = struct{}{}
}

// All yields the records in insertion order. The sequence is restartable and
// works over a snapshot, so it stays stable while the ledger mutates.
func (l *Ledger) All() iter.Seq[domain.MealRecord] {
	snapshot := l.Snapshot()
	return func(yield func(domain.MealRecord) bool) {
		for _, rec := range snapshot {
			if !yield(rec) {
				return
			}
		}
	}
}

// Snapshot copies the current records in insertion order.
func (l *Ledger) Snapshot() []domain.MealRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.MealRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len reports the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
