package models

import (
	"errors"
	"testing"
	"time"
)

// TestParseDate verifies ISO dates parse into calendar days and print back unchanged.
func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-19")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != (Date{Year: 2025, Month: time.December, Day: 19}) {
		t.Errorf("got %+v", d)
	}
	if d.String() != "2025-12-19" {
		t.Errorf("String() = %q", d.String())
	}
	if d.Weekday() != time.Friday {
		t.Errorf("weekday = %v, want Friday", d.Weekday())
	}
}

// TestParseDateInvalid verifies malformed dates return ErrInvalidDate.
func TestParseDateInvalid(t *testing.T) {
	for _, s := range []string{"", "2025-13-01", "12/19/2025", "2025-02-30"} {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", s, err)
		}
	}
}

// TestDateAddDaysCrossesBoundaries verifies month and year rollover.
func TestDateAddDaysCrossesBoundaries(t *testing.T) {
	d := Date{Year: 2025, Month: time.December, Day: 31}
	if got := d.AddDays(1).String(); got != "2026-01-01" {
		t.Errorf("AddDays(1) = %s", got)
	}
	if got := d.AddDays(-31).String(); got != "2025-11-30" {
		t.Errorf("AddDays(-31) = %s", got)
	}
}

// TestDateOfUsesLocalCalendarDay verifies that DateOf keeps the day of the given location
// rather than converting to UTC first.
func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	got := DateOf(time.Date(2025, 12, 19, 23, 30, 0, 0, loc))
	if got.String() != "2025-12-19" {
		t.Errorf("DateOf = %s, want 2025-12-19", got)
	}
}

// TestDateOrdering verifies Before/After comparisons.
func TestDateOrdering(t *testing.T) {
	a := Date{Year: 2025, Month: 1, Day: 1}
	b := a.AddDays(1)
	if !a.Before(b) || !b.After(a) || a.After(b) {
		t.Errorf("ordering broken for %s and %s", a, b)
	}
}
