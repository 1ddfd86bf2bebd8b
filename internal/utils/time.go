package utils

import "time"

// SameLocalDay reports whether two instants fall on the same calendar day in
// the location of the reference instant ref. This is the bucket-ownership rule
// for daily totals: local year, month and day must all match.
func SameLocalDay(t, ref time.Time) bool {
	t = t.In(ref.Location())
	return t.Year() == ref.Year() && t.Month() == ref.Month() && t.Day() == ref.Day()
}

// DayStart returns midnight of t's calendar day in t's location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the Sunday that starts t's week, in t's
// location. Weeks are Sunday-anchored to match the product's charts.
func WeekStart(t time.Time) time.Time {
	start := DayStart(t)
	return start.AddDate(0, 0, -int(start.Weekday()))
}
