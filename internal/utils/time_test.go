package utils

import (
	"testing"
	"time"
)

func TestSameLocalDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	ref := time.Date(2024, 1, 10, 15, 0, 0, 0, loc)

	// 01:30 UTC on Jan 11 is still 22:30 on Jan 10 in São Paulo (UTC-3).
	lateEvening := time.Date(2024, 1, 11, 1, 30, 0, 0, time.UTC)
	if !SameLocalDay(lateEvening, ref) {
		t.Error("instant on the same local day was not matched")
	}

	nextDay := time.Date(2024, 1, 11, 12, 0, 0, 0, loc)
	if SameLocalDay(nextDay, ref) {
		t.Error("instant on the next local day must not match")
	}
}

func TestWeekStartIsSunday(t *testing.T) {
	// 2024-01-10 is a Wednesday; its week starts Sunday 2024-01-07.
	wed := time.Date(2024, 1, 10, 18, 45, 0, 0, time.UTC)
	start := WeekStart(wed)

	if start.Weekday() != time.Sunday {
		t.Fatalf("week start weekday = %s, want Sunday", start.Weekday())
	}
	want := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("week start = %v, want %v", start, want)
	}

	// A Sunday is its own week start.
	sun := time.Date(2024, 1, 7, 23, 59, 0, 0, time.UTC)
	if !WeekStart(sun).Equal(want) {
		t.Fatalf("week start of a Sunday = %v, want %v", WeekStart(sun), want)
	}
}
