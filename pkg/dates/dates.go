// Package dates normalizes the calendar-date handling used across booking
// code. Reservations carry inclusive start/end dates with no time component;
// every date that enters the system is collapsed to UTC midnight so that
// comparisons never depend on the wall-clock time or zone a value was
// created with.
package dates

import (
	"time"

	pkgerrors "github.com/rentgear/rentgear-backend/pkg/errors"
)

const Layout = "2006-01-02"

// Day collapses a timestamp to its calendar date, represented as UTC midnight.
// The calendar date is taken from the value's own location, so "today" for a
// local clock stays today even east of Greenwich.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in the deployment's local calendar.
func Today() time.Time {
	return Day(time.Now())
}

// Parse reads an ISO calendar date (YYYY-MM-DD).
func Parse(value string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, value, time.UTC)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}

// Format renders a date back to ISO form.
func Format(t time.Time) string {
	return Day(t).Format(Layout)
}

// Overlaps reports whether the inclusive ranges [startA, endA] and
// [startB, endB] share at least one day.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return !startA.After(endB) && !endA.Before(startB)
}

// Min returns the earlier of two dates.
func Min(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// DaysInclusive counts the days covered by the inclusive range [start, end].
// A single-day rental counts as one day.
func DaysInclusive(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(Day(end).Sub(Day(start))/(24*time.Hour)) + 1
}
