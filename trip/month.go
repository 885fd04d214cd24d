package trip

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date (UTC)
// =============================================================================

// Date is a calendar day. All engine inputs are day-keyed; there is no
// sub-day granularity in this domain.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) Year() int            { return d.t.Year() }
func (d Date) MonthOf() time.Month  { return d.t.Month() }
func (d Date) Day() int             { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool         { return d.t.IsZero() }
func (d Date) Before(o Date) bool   { return d.t.Before(o.t) }
func (d Date) After(o Date) bool    { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool    { return d.t.Equal(o.t) }
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) String() string       { return d.t.Format("2006-01-02") }

// =============================================================================
// MONTH - Reporting month, always normalized to its first calendar day
// =============================================================================

// Month identifies one reporting month. Callers may address a month as
// "YYYY-MM" or "YYYY-MM-DD"; ParseMonth normalizes both to the first of the
// month so every ledger lookup for a month hits the same row regardless of
// caller formatting.
type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// ParseMonth accepts "YYYY-MM" or "YYYY-MM-DD" and discards any day part.
func ParseMonth(s string) (Month, error) {
	if t, err := time.Parse("2006-01", s); err == nil {
		return NewMonth(t.Year(), t.Month()), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return NewMonth(t.Year(), t.Month()), nil
	}
	return Month{}, fmt.Errorf("%w: %q (want YYYY-MM or YYYY-MM-DD)", ErrInvalidMonth, s)
}

// MustParseMonth is ParseMonth for hardcoded inputs; it panics on error.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// First returns the first calendar day, the canonical ledger key date.
func (m Month) First() Date {
	return NewDate(m.Year, m.Month, 1)
}

// Last returns the final calendar day of the month.
func (m Month) Last() Date {
	return Date{t: time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
}

// Days returns the number of calendar days in the month.
func (m Month) Days() int {
	return m.Last().Day()
}

// Date returns the given day-of-month as a Date.
func (m Month) Date(day int) Date {
	return NewDate(m.Year, m.Month, day)
}

// Contains reports whether d falls inside the month.
func (m Month) Contains(d Date) bool {
	return d.Year() == m.Year && d.MonthOf() == m.Month
}

func (m Month) String() string {
	return m.First().t.Format("2006-01")
}

// Key is the canonical "YYYY-MM-01" form used as the ledger row key.
func (m Month) Key() string {
	return m.First().String()
}
