/*
Package trip implements the business-trip / overtime-conversion reconciliation engine.

PURPOSE:
  This package computes, per employee per month, the monetary business-trip
  entitlement from three heterogeneous sources (Saturday work reclassified as
  trip time, daily allowances, converted overtime), normalizes that amount
  into a whole number of standardized business-trip days at a per-employee
  daily rate, and enforces the core payroll constraint:

      standardized_business_trip_days <= actual worked days in the month

  When the constraint is violated, previously converted overtime is
  de-converted via a corrective delta on the conversion ledger, so the
  correction is durable and auditable rather than a display-time adjustment.

KEY CONCEPTS IN THIS FILE (types.go):
  - WorkDayRecord / AbsenceRecord: Read-only inputs from the time-entry store
  - EffectiveSettings: Flattened per-employee-per-date configuration
  - ConversionLedger: One row per (employee, month), mutated only via deltas
  - MonthlySummary: The engine's output (not persisted)

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all hours and amounts. Payroll money
     never touches float64.
  2. Purity: Settings resolution, classification, and aggregation are pure
     reads; the single write is the ledger correction.
  3. Isolation: Employees are computed independently; one employee's failure
     never aborts a batch.

SEE ALSO:
  - settings.go: Layered, time-versioned settings resolution
  - aggregate.go: Per-day fold into monthly fixed aggregates
  - conversion.go: Overtime-to-money conversion and the ledger contract
  - engine.go: Standardization and the working-days constraint
*/
package trip

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// =============================================================================
// WORK DAY RECORD - One worked-time entry (read-only input)
// =============================================================================

// WorkDayRecord is one worked-time entry for an employee on a date.
// Owned by the time-entry store; the engine never mutates it.
type WorkDayRecord struct {
	EmployeeID    EmployeeID
	Date          Date
	TotalHours    decimal.Decimal // gross hours including lunch
	LunchHours    decimal.Decimal // unpaid lunch break, subtracted for net hours
	OvertimeHours decimal.Decimal // may already be reduced by Saturday handling upstream
	IsSaturday    bool
	IsHoliday     bool
}

// NetHours is the canonical worked-hours figure: total minus lunch, floored
// at zero. Both the monthly totals and meal-benefit eligibility use this
// single definition so hour totals and voucher eligibility cannot disagree.
func (r WorkDayRecord) NetHours() decimal.Decimal {
	net := r.TotalHours.Sub(r.LunchHours)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// =============================================================================
// ABSENCE RECORD
// =============================================================================

type AbsenceType string

const (
	AbsenceUnjustified AbsenceType = "unjustified"
	AbsenceVacation    AbsenceType = "vacation"
	AbsenceHoliday     AbsenceType = "holiday"
	AbsenceInjury      AbsenceType = "injury"
	AbsenceSickness    AbsenceType = "sickness"
	AbsencePaidLeave   AbsenceType = "paid_leave"
	AbsenceUnpaidLeave AbsenceType = "unpaid_leave"
)

// DefaultAbsenceHours is assumed when an absence row carries no hours.
var DefaultAbsenceHours = decimal.NewFromInt(8)

// AbsenceRecord is a read-only absence entry. Absences are never worked days
// and never contribute to business-trip amounts; they are totaled per type
// for reporting only.
type AbsenceRecord struct {
	EmployeeID EmployeeID
	Date       Date
	Type       AbsenceType
	Hours      decimal.Decimal // zero means "use DefaultAbsenceHours"
}

// EffectiveHours returns the absence hours, defaulting to a full 8-hour day.
func (a AbsenceRecord) EffectiveHours() decimal.Decimal {
	if a.Hours.IsZero() {
		return DefaultAbsenceHours
	}
	return a.Hours
}

// =============================================================================
// CONVERSION LEDGER - One row per (employee, month)
// =============================================================================

// ConversionLedger records how many overtime hours have been converted into
// business-trip monetary credit for one employee in one month.
//
// INVARIANTS:
//   - TotalHours() = AutomaticHours + ManualHours, always derived, never
//     stored independently of its components.
//   - ManualHours >= 0 after every delta application (deltas clamp, never
//     drive the ledger negative).
//   - Rows are created lazily on first access and never deleted.
type ConversionLedger struct {
	EmployeeID     EmployeeID
	Month          Month
	AutomaticHours decimal.Decimal // set by automatic monthly processing
	ManualHours    decimal.Decimal // delta-applied admin adjustments, >= 0
	Notes          string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalHours is the derived total conversion for the month.
func (l ConversionLedger) TotalHours() decimal.Decimal {
	return l.AutomaticHours.Add(l.ManualHours)
}

// =============================================================================
// MONTHLY SUMMARY - Engine output (not persisted)
// =============================================================================

// DayBreakdown is the per-day view the aggregator produces. It lets callers
// redistribute converted hours back onto specific days for display.
type DayBreakdown struct {
	Ordinary       decimal.Decimal
	Overtime       decimal.Decimal
	AbsenceType    *AbsenceType
	IsBusinessTrip bool
}

// MonthlySummary is the per-employee-per-month result of the engine.
//
// INVARIANT: StandardizedDays <= ActualWorkingDays, except the documented
// fixed-amount edge case which is surfaced via WarnFixedExceedsCeiling
// rather than silently produced.
type MonthlySummary struct {
	EmployeeID EmployeeID
	Month      Month

	OrdinaryHours decimal.Decimal
	OvertimeHours decimal.Decimal // remaining for payroll, post-conversion

	SaturdayHours  decimal.Decimal
	SaturdayAmount decimal.Decimal

	DailyAllowanceDays   int
	DailyAllowanceAmount decimal.Decimal
	MealVoucherDays      int

	ConversionHours  decimal.Decimal // post-constraint
	ConversionAmount decimal.Decimal // post-constraint

	TotalAmount       decimal.Decimal // saturday + allowance + conversion
	StandardizedDays  int
	DailyRate         decimal.Decimal // TotalAmount / StandardizedDays
	AdjustedTripHours decimal.Decimal // saturday + conversion hours, scaled to day count
	ActualWorkingDays int
	MealInclusiveRate bool // which daily-rate candidate was selected

	AbsenceByType map[AbsenceType]decimal.Decimal
	Days          map[Date]DayBreakdown

	Warnings []Warning
}

// Flagged reports whether the summary carries the given warning code.
func (s *MonthlySummary) Flagged(code WarningCode) bool {
	for _, w := range s.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
