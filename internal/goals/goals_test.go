package goals

import (
	"testing"

	"github.com/nutriplus/nutribot/internal/domain"
)

func TestComputeOverTarget(t *testing.T) {
	p, ok := Compute(2500, 2000)
	if !ok {
		t.Fatal("expected progress for a configured target")
	}
	if p.Percent != 125 {
		t.Errorf("Percent = %d, want 125", p.Percent)
	}
	if p.DisplayPercent != 100 {
		t.Errorf("DisplayPercent = %d, want 100 (capped)", p.DisplayPercent)
	}
	if !p.Over {
		t.Error("Over = false, want true")
	}
}

func TestComputeUnderTarget(t *testing.T) {
	p, ok := Compute(1500, 2000)
	if !ok {
		t.Fatal("expected progress for a configured target")
	}
	if p.Percent != 75 || p.DisplayPercent != 75 {
		t.Errorf("percent = %d/%d, want 75/75", p.Percent, p.DisplayPercent)
	}
	if p.Over {
		t.Error("Over = true, want false")
	}
}

func TestComputeExactTargetIsNotOver(t *testing.T) {
	p, _ := Compute(2000, 2000)
	if p.Over {
		t.Error("hitting the target exactly is not over-target")
	}
	if p.Percent != 100 {
		t.Errorf("Percent = %d, want 100", p.Percent)
	}
}

func TestComputeZeroTargetSkipped(t *testing.T) {
	if _, ok := Compute(500, 0); ok {
		t.Fatal("zero target must be skipped, not divided")
	}
}

func TestSummarizeSkipsUnconfigured(t *testing.T) {
	totals := domain.MacroTotals{Calories: 1800, Protein: 120, Carbs: 200, Fat: 60}
	goalSet := domain.MacroGoals{Calories: 2000, Protein: 150} // carbs/fat unset

	s := Summarize(totals, goalSet)
	if s.Calories == nil || s.Protein == nil {
		t.Fatal("configured macros missing from summary")
	}
	if s.Carbs != nil || s.Fat != nil {
		t.Fatal("unconfigured macros must be absent from summary")
	}
	if s.Calories.Percent != 90 {
		t.Errorf("calories percent = %d, want 90", s.Calories.Percent)
	}
}

func TestValidate(t *testing.T) {
	if Validate(domain.MacroGoals{Calories: 0, Protein: 100}) {
		t.Error("calories 0 is the unconfigured sentinel, not a valid goal set")
	}
	if Validate(domain.MacroGoals{Calories: 2000, Protein: -1}) {
		t.Error("negative targets must be rejected")
	}
	if !Validate(domain.MacroGoals{Calories: 2000, Protein: 150, Carbs: 250, Fat: 70}) {
		t.Error("a normal goal set must validate")
	}
}
