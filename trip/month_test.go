package trip_test

import (
	"testing"
	"time"

	"github.com/timbrature/trip-engine/trip"
)

func TestParseMonth_AcceptsBothForms(t *testing.T) {
	// GIVEN: a month addressed as "YYYY-MM" and as "YYYY-MM-DD"
	// WHEN: parsing both
	// THEN: both normalize to the same month (and the same ledger key)

	a, err := trip.ParseMonth("2025-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := trip.ParseMonth("2025-03-17")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a != b {
		t.Errorf("expected %v == %v", a, b)
	}
	if a.Key() != "2025-03-01" {
		t.Errorf("expected canonical key 2025-03-01, got %s", a.Key())
	}
}

func TestParseMonth_RejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "2025", "03-2025", "2025/03", "2025-13"} {
		if _, err := trip.ParseMonth(input); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestMonth_Days(t *testing.T) {
	cases := []struct {
		month trip.Month
		want  int
	}{
		{trip.NewMonth(2025, time.January), 31},
		{trip.NewMonth(2025, time.February), 28},
		{trip.NewMonth(2024, time.February), 29}, // leap year
		{trip.NewMonth(2025, time.April), 30},
	}
	for _, c := range cases {
		if got := c.month.Days(); got != c.want {
			t.Errorf("%s: expected %d days, got %d", c.month, c.want, got)
		}
	}
}

func TestMonth_Contains(t *testing.T) {
	m := trip.NewMonth(2025, time.March)
	if !m.Contains(trip.NewDate(2025, time.March, 31)) {
		t.Error("expected March 31 inside 2025-03")
	}
	if m.Contains(trip.NewDate(2025, time.April, 1)) {
		t.Error("expected April 1 outside 2025-03")
	}
}
