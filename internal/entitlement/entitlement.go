package entitlement

import (
	"math"
	"time"
)

// TrialDays is how long a new account can write before subscribing.
const TrialDays = 3

// Status is the user's current access tier.
type Status string

const (
	StatusTrialing   Status = "trialing"
	StatusLocked     Status = "locked"
	StatusSubscribed Status = "subscribed"
)

// State is derived on every evaluation and never persisted; the subscription
// flag is the only stored input.
type State struct {
	Status        Status
	TrialDaysLeft int
}

// Evaluate computes the entitlement state from the account creation instant,
// the current instant and the persisted subscription flag. It is pure: callers
// re-evaluate on every identity change instead of caching the result.
func Evaluate(accountCreatedAt, now time.Time, subscriptionActive bool) State {
	if subscriptionActive {
		return State{Status: StatusSubscribed}
	}

	elapsed := now.Sub(accountCreatedAt)
	if elapsed < 0 {
		// Clock skew can put the creation instant in the future; a fresh
		// account must never start locked.
		elapsed = 0
	}
	elapsedDays := int(math.Ceil(elapsed.Hours() / 24))

	remaining := TrialDays - elapsedDays
	if remaining < 0 {
		remaining = 0
	}

	// Exactly TrialDays elapsed still counts as inside the trial.
	if elapsedDays > TrialDays {
		return State{Status: StatusLocked}
	}
	return State{Status: StatusTrialing, TrialDaysLeft: remaining}
}

// AllowsWrites is the write guard. Mutating operations (goal updates, diary
// add/remove, saved-recipe toggles) check it first; reads are never gated.
func (s State) AllowsWrites() bool {
	return s.Status != StatusLocked
}
