// Package aggregate derives time-bucketed nutrition summaries from a meal
// ledger snapshot. Everything here is pure: buckets are recomputed on every
// query and identical inputs yield identical output.
package aggregate

import (
	"fmt"
	"iter"
	"time"

	"github.com/nutriplus/nutribot/internal/domain"
	"github.com/nutriplus/nutribot/internal/utils"
)

// Mode selects the chart series shape.
type Mode int

const (
	// ModeDays is the 7-bucket daily series ending today.
	ModeDays Mode = iota
	// ModeWeeks is the 4-bucket weekly series ending in the current
	// (possibly partial) week.
	ModeWeeks
)

const (
	daySeriesLen  = 7
	weekSeriesLen = 4
)

// Bucket is one fixed time span with its summed calories. Membership is
// half-open: [Start, End).
type Bucket struct {
	Label    string
	Start    time.Time
	End      time.Time
	Calories float64
}

// Short pt-BR weekday names, indexed by time.Weekday.
var weekdayShort = [...]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// DailyTotals sums every record falling on the same local calendar day as ref
// (midnight to midnight in ref's location). The sum is order-independent.
func DailyTotals(meals iter.Seq[domain.MealRecord], ref time.Time) domain.MacroTotals {
	var totals domain.MacroTotals
	for m := range meals {
		if !utils.SameLocalDay(m.Timestamp, ref) {
			continue
		}
		totals.Calories += m.Calories
		totals.Protein += m.Protein
		totals.Carbs += m.Carbs
		totals.Fat += m.Fat
	}
	return totals
}

// Series builds the chart buckets for the given mode, oldest first.
func Series(meals iter.Seq[domain.MealRecord], mode Mode, now time.Time) []Bucket {
	if mode == ModeWeeks {
		return weekSeries(meals, now)
	}
	return daySeries(meals, now)
}

func daySeries(meals iter.Seq[domain.MealRecord], now time.Time) []Bucket {
	buckets := make([]Bucket, 0, daySeriesLen)
	for i := daySeriesLen - 1; i >= 0; i-- {
		day := utils.DayStart(now.AddDate(0, 0, -i))
		label := "Hoje"
		if i > 0 {
			label = weekdayShort[day.Weekday()]
		}
		buckets = append(buckets, Bucket{
			Label: label,
			Start: day,
			End:   day.AddDate(0, 0, 1),
		})
	}
	for m := range meals {
		for i := range buckets {
			if utils.SameLocalDay(m.Timestamp, buckets[i].Start) {
				buckets[i].Calories += m.Calories
				break
			}
		}
	}
	return buckets
}

func weekSeries(meals iter.Seq[domain.MealRecord], now time.Time) []Bucket {
	currentWeek := utils.WeekStart(now)

	buckets := make([]Bucket, 0, weekSeriesLen)
	for i := weekSeriesLen - 1; i >= 0; i-- {
		start := currentWeek.AddDate(0, 0, -7*i)
		var label string
		switch i {
		case 0:
			label = "Atual"
		case 1:
			label = "Passada"
		default:
			label = fmt.Sprintf("%d sem atrás", i)
		}
		buckets = append(buckets, Bucket{
			Label: label,
			Start: start,
			End:   start.AddDate(0, 0, 7),
		})
	}
	for m := range meals {
		for i := range buckets {
			// End excluded so a meal at a week seam is counted once.
			if !m.Timestamp.Before(buckets[i].Start) && m.Timestamp.Before(buckets[i].End) {
				buckets[i].Calories += m.Calories
				break
			}
		}
	}
	return buckets
}
