package entitlement

import (
	"testing"
	"time"
)

func TestEvaluateSubscribed(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	now := created.AddDate(2, 0, 0)

	state := Evaluate(created, now, true)
	if state.Status != StatusSubscribed {
		t.Fatalf("expected subscribed regardless of elapsed time, got %s", state.Status)
	}
	if state.TrialDaysLeft != 0 {
		t.Errorf("trial days should not be reported for subscribers, got %d", state.TrialDaysLeft)
	}
}

func TestEvaluateTrial(t *testing.T) {
	created := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		elapsed   time.Duration
		status    Status
		remaining int
	}{
		{"just created", 0, StatusTrialing, 3},
		{"a few hours in", 6 * time.Hour, StatusTrialing, 2},
		{"one day", 24 * time.Hour, StatusTrialing, 2},
		{"two and a half days", 60 * time.Hour, StatusTrialing, 0},
		{"exactly three days", 72 * time.Hour, StatusTrialing, 0},
		{"just past three days", 72*time.Hour + time.Minute, StatusLocked, 0},
		{"a week later", 7 * 24 * time.Hour, StatusLocked, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Evaluate(created, created.Add(tt.elapsed), false)
			if state.Status != tt.status {
				t.Errorf("status = %s, want %s", state.Status, tt.status)
			}
			if state.TrialDaysLeft != tt.remaining {
				t.Errorf("TrialDaysLeft = %d, want %d", state.TrialDaysLeft, tt.remaining)
			}
		})
	}
}

func TestEvaluateClockSkew(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	created := now.Add(2 * time.Hour) // account "created in the future"

	state := Evaluate(created, now, false)
	if state.Status != StatusTrialing {
		t.Fatalf("future creation instant must not lock the account, got %s", state.Status)
	}
	if state.TrialDaysLeft != TrialDays {
		t.Errorf("TrialDaysLeft = %d, want full trial %d", state.TrialDaysLeft, TrialDays)
	}
}

func TestAllowsWrites(t *testing.T) {
	if (State{Status: StatusLocked}).AllowsWrites() {
		t.Error("locked state must refuse writes")
	}
	if !(State{Status: StatusTrialing, TrialDaysLeft: 1}).AllowsWrites() {
		t.Error("trialing state must allow writes")
	}
	if !(State{Status: StatusSubscribed}).AllowsWrites() {
		t.Error("subscribed state must allow writes")
	}
}
