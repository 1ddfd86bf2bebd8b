// Package goals compares aggregated intake against the user's macro targets.
package goals

import (
	"math"

	"github.com/nutriplus/nutribot/internal/domain"
)

// Progress describes one macro against its target. Percent is uncapped and
// meant for textual display ("125% (Excedido)"); DisplayPercent is capped at
// 100 for progress-bar rendering.
type Progress struct {
	Current        float64
	Target         float64
	Percent        int
	DisplayPercent int
	Over           bool
}

// Compute reports progress for a single macro. A zero target means the goal is
// not configured; the second return is false and no division happens.
func Compute(current, target float64) (Progress, bool) {
	if target <= 0 {
		return Progress{}, false
	}

	percent := int(math.Round(current / target * 100))
	display := percent
	if display > 100 {
		display = 100
	}

	return Progress{
		Current:        current,
		Target:         target,
		Percent:        percent,
		DisplayPercent: display,
		Over:           current > target,
	}, true
}

// Summary is the per-macro progress of one day against the goal set. Macros
// without a configured target are simply absent.
type Summary struct {
	Calories *Progress
	Protein  *Progress
	Carbs    *Progress
	Fat      *Progress
}

// Summarize evaluates the four macros independently.
func Summarize(totals domain.MacroTotals, goals domain.MacroGoals) Summary {
	var s Summary
	if p, ok := Compute(totals.Calories, goals.Calories); ok {
		s.Calories = &p
	}
	if p, ok := Compute(totals.Protein, goals.Protein); ok {
		s.Protein = &p
	}
	if p, ok := Compute(totals.Carbs, goals.Carbs); ok {
		s.Carbs = &p
	}
	if p, ok := Compute(totals.Fat, goals.Fat); ok {
		s.Fat = &p
	}
	return s
}

// Validate checks a goal set entered by the user. Targets must be
// non-negative; calories must be positive so the set counts as configured.
func Validate(g domain.MacroGoals) bool {
	return g.Calories > 0 && g.Protein >= 0 && g.Carbs >= 0 && g.Fat >= 0
}
