package dates

import (
	"testing"
	"time"
)

func date(value string) time.Time {
	t, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDayStripsTimeAndZone(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("IST", 2*60*60)
	stamp := time.Date(2025, 6, 3, 23, 45, 0, 0, loc)

	got := Day(stamp)
	want := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := Parse("03/06/2025"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
	if _, err := Parse("2025-06-03"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                   string
		aStart, aEnd           string
		bStart, bEnd           string
		want                   bool
	}{
		{"disjoint before", "2025-06-01", "2025-06-05", "2025-06-06", "2025-06-10", false},
		{"touching endpoints", "2025-06-01", "2025-06-05", "2025-06-05", "2025-06-10", true},
		{"contained", "2025-06-01", "2025-06-10", "2025-06-03", "2025-06-04", true},
		{"single day equal", "2025-06-03", "2025-06-03", "2025-06-03", "2025-06-03", true},
		{"disjoint after", "2025-06-11", "2025-06-12", "2025-06-06", "2025-06-10", false},
	}

	for _, tc := range cases {
		got := Overlaps(date(tc.aStart), date(tc.aEnd), date(tc.bStart), date(tc.bEnd))
		if got != tc.want {
			t.Fatalf("%s: expected %v", tc.name, tc.want)
		}
	}
}

func TestDaysInclusive(t *testing.T) {
	t.Parallel()

	if got := DaysInclusive(date("2025-06-01"), date("2025-06-01")); got != 1 {
		t.Fatalf("single day should count as 1, got %d", got)
	}
	if got := DaysInclusive(date("2025-06-01"), date("2025-06-05")); got != 5 {
		t.Fatalf("expected 5 days, got %d", got)
	}
	if got := DaysInclusive(date("2025-06-05"), date("2025-06-01")); got != 0 {
		t.Fatalf("inverted range should count as 0, got %d", got)
	}
}
