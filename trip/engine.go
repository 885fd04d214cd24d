/*
engine.go - Standardization & constraint engine

PURPOSE:
  The core of the package. Combines the fixed monthly amount (Saturday trip
  pay + daily allowances) with the flexible amount (converted overtime) into
  a total monetary entitlement, converts it into a whole number of
  standardized business-trip days at the employee's daily rate, and enforces

      standardized_days <= actual_working_days

  When the constraint is violated the overtime-conversion contribution is
  reduced to the remaining headroom and the hours delta is persisted to the
  conversion ledger as a manual de-conversion, so the correction survives
  recomputation and is auditable.

PIPELINE (per employee, per month):
  1. Fetch work days, absences, and the ledger row concurrently
  2. Resolve settings per date (cached within the run)
  3. Fold days into the fixed aggregates          (aggregate.go)
  4. Recompute automatic conversion, read manual  (conversion.go)
  5. Count actual working days                    (workdays.go)
  6. Standardize and enforce the ceiling          (this file)

DAY ROUNDING:
  unconstrained_days = ceil(total / rate), with the quotient rounded to two
  decimals first: a cent-scale remainder (93 / 30.98 = 3.0019...) does not
  consume a whole extra day. Any larger fraction does - a started day uses a
  full day's allowance.

FAILURE SEMANTICS:
  Exceeding the ceiling is the expected case, corrected silently. The engine
  errors only when settings cannot be resolved at all. A retryable ledger
  conflict is retried once; any other failed corrective write downgrades to
  WarnCorrectionPersistFailed on the returned summary; the in-memory values
  are already corrected.
*/
package trip

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// correctionEpsilon: hour deltas at or below this are noise from prior
// corrections already reflected in the ledger, not new corrections.
var correctionEpsilon = decimal.RequireFromString("0.01")

// Engine computes monthly business-trip summaries. All collaborators are
// interfaces; the engine owns no storage.
type Engine struct {
	workDays WorkDayStore
	absences AbsenceStore
	settings SettingsStore
	ledger   LedgerStore
}

func NewEngine(workDays WorkDayStore, absences AbsenceStore, settings SettingsStore, ledger LedgerStore) *Engine {
	return &Engine{
		workDays: workDays,
		absences: absences,
		settings: settings,
		ledger:   ledger,
	}
}

// ComputeSummary computes the summary for one employee. yearMonth accepts
// "YYYY-MM" or "YYYY-MM-DD"; either addresses the same ledger row.
func (e *Engine) ComputeSummary(ctx context.Context, employeeID EmployeeID, yearMonth string) (*MonthlySummary, error) {
	month, err := ParseMonth(yearMonth)
	if err != nil {
		return nil, err
	}
	return e.ComputeSummaryForMonth(ctx, employeeID, month)
}

// ComputeSummaryForMonth is ComputeSummary with an already-normalized month.
func (e *Engine) ComputeSummaryForMonth(ctx context.Context, employeeID EmployeeID, month Month) (*MonthlySummary, error) {
	// Fetch all raw inputs concurrently, then run the stages synchronously.
	var (
		wg       sync.WaitGroup
		records  []WorkDayRecord
		absences []AbsenceRecord
		ledger   ConversionLedger

		recordsErr, absencesErr, ledgerErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		records, recordsErr = e.workDays.ListWorkDays(ctx, employeeID, month)
	}()
	go func() {
		defer wg.Done()
		absences, absencesErr = e.absences.ListAbsences(ctx, employeeID, month)
	}()
	go func() {
		defer wg.Done()
		ledger, ledgerErr = e.ledger.GetOrCreate(ctx, employeeID, month)
	}()
	wg.Wait()
	for _, err := range []error{recordsErr, absencesErr, ledgerErr} {
		if err != nil {
			return nil, err
		}
	}

	// Fresh resolver per run: settings edits between runs must be seen.
	resolver := NewSettingsResolver(e.settings)
	resolve := func(ctx context.Context, d Date) (EffectiveSettings, error) {
		return resolver.Resolve(ctx, employeeID, d)
	}

	agg, err := AggregateMonth(ctx, month, records, absences, resolve)
	if err != nil {
		return nil, err
	}

	monthSettings, err := resolve(ctx, month.First())
	if err != nil {
		return nil, err
	}

	// Recompute the automatic component from current data and persist it so
	// the ledger's derived total stays consistent with its components.
	automatic := AutomaticConversionHours(agg.OvertimeHours, monthSettings)
	if !automatic.Equal(ledger.AutomaticHours) {
		ledger, err = e.ledger.SetAutomaticHours(ctx, employeeID, month, automatic)
		if err != nil {
			return nil, err
		}
	}
	conversion := ComputeConversion(agg.OvertimeHours, ledger, monthSettings)

	workingDays, err := ComputeActualWorkingDays(ctx, records, resolve)
	if err != nil {
		return nil, err
	}

	summary := e.standardize(ctx, employeeID, month, agg, conversion, workingDays, records, resolve)
	return summary, nil
}

// =============================================================================
// STANDARDIZATION & CONSTRAINT
// =============================================================================

func (e *Engine) standardize(
	ctx context.Context,
	employeeID EmployeeID,
	month Month,
	agg MonthlyAggregate,
	conversion ConversionResult,
	workingDays int,
	records []WorkDayRecord,
	resolve func(context.Context, Date) (EffectiveSettings, error),
) *MonthlySummary {
	summary := &MonthlySummary{
		EmployeeID:           employeeID,
		Month:                month,
		OrdinaryHours:        agg.OrdinaryHours,
		SaturdayHours:        agg.SaturdayHours,
		SaturdayAmount:       agg.SaturdayAmount,
		DailyAllowanceDays:   agg.DailyAllowanceDays,
		DailyAllowanceAmount: agg.DailyAllowanceAmount,
		MealVoucherDays:      agg.MealVoucherDays,
		ActualWorkingDays:    workingDays,
		AbsenceByType:        agg.AbsenceByType,
		Days:                 agg.Days,
	}
	if !conversion.Enabled {
		summary.Warnings = append(summary.Warnings, Warning{
			Code:    WarnConversionDisabled,
			Message: "overtime conversion is disabled at the effective settings level",
		})
	}

	rate, withMeal := e.selectDailyRate(ctx, records, resolve)
	summary.MealInclusiveRate = withMeal

	fixed := agg.FixedAmount()
	convHours := conversion.TotalHours
	convAmount := conversion.Amount
	total := fixed.Add(convAmount)

	// Nothing to standardize.
	if total.IsZero() || !rate.IsPositive() {
		summary.ConversionHours = convHours
		summary.ConversionAmount = convAmount
		summary.TotalAmount = total
		summary.StandardizedDays = 0
		summary.DailyRate = decimal.Zero
		summary.AdjustedTripHours = agg.SaturdayHours.Add(convHours)
		summary.OvertimeHours = conversion.RemainingOvertime
		return summary
	}

	// A cent-scale remainder must not consume an extra day; anything larger
	// does.
	unconstrained := int(total.Div(rate).Round(2).Ceil().IntPart())
	if unconstrained < 1 {
		unconstrained = 1
	}

	if unconstrained <= workingDays {
		summary.ConversionHours = convHours
		summary.ConversionAmount = convAmount
		summary.TotalAmount = total
		summary.StandardizedDays = unconstrained
		summary.DailyRate = total.Div(decimal.NewFromInt(int64(unconstrained)))
		summary.AdjustedTripHours = agg.SaturdayHours.Add(convHours)
		summary.OvertimeHours = conversion.RemainingOvertime
		return summary
	}

	// Constraint violated: cap at worked days and shrink the flexible
	// (conversion) contribution to the remaining headroom.
	days := workingDays
	maxAllowable := rate.Mul(decimal.NewFromInt(int64(days)))

	var correctedHours, correctedAmount decimal.Decimal
	if maxAllowable.LessThan(fixed) {
		// The fixed, non-discretionary amount alone exceeds what worked days
		// allow. Keep it intact, zero the conversion, and flag the condition
		// instead of masking it.
		correctedHours = decimal.Zero
		correctedAmount = decimal.Zero
		summary.Warnings = append(summary.Warnings, Warning{
			Code: WarnFixedExceedsCeiling,
			Message: fmt.Sprintf("fixed amount %s exceeds ceiling %s (%d worked days x rate %s)",
				fixed.StringFixed(2), maxAllowable.StringFixed(2), days, rate.StringFixed(2)),
		})
	} else {
		available := maxAllowable.Sub(fixed)
		correctedAmount = convAmount
		if correctedAmount.GreaterThan(available) {
			correctedAmount = available
		}
		if convAmount.IsPositive() {
			correctedHours = convHours.Mul(correctedAmount.Div(convAmount))
		}
	}

	finalAmount := fixed.Add(correctedAmount)

	summary.ConversionHours = correctedHours
	summary.ConversionAmount = correctedAmount
	summary.TotalAmount = finalAmount
	summary.StandardizedDays = days
	if days > 0 {
		summary.DailyRate = finalAmount.Div(decimal.NewFromInt(int64(days)))
	} else {
		summary.DailyRate = decimal.Zero
	}

	remaining := agg.OvertimeHours.Sub(correctedHours)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	summary.OvertimeHours = remaining

	// Keep displayed hours consistent with the reduced day count.
	rawHours := agg.SaturdayHours.Add(convHours)
	if unconstrained > 0 {
		summary.AdjustedTripHours = rawHours.
			Mul(decimal.NewFromInt(int64(days))).
			Div(decimal.NewFromInt(int64(unconstrained)))
	} else {
		summary.AdjustedTripHours = rawHours
	}

	// Persist the de-conversion so the correction is durable, not a
	// display-time adjustment. Only the manual component can absorb it: the
	// automatic component is recomputed from records on every run, so the
	// delta is clamped at -manual_hours. Past that clamp, and for deltas
	// within epsilon, the ledger already reflects everything it can and a
	// write would only re-append the same correction.
	hoursDelta := correctedHours.Sub(convHours)
	if floor := conversion.ManualHours.Neg(); hoursDelta.LessThan(floor) {
		hoursDelta = floor
	}
	if hoursDelta.Abs().GreaterThan(correctionEpsilon) {
		note := fmt.Sprintf("auto de-conversion %s: trip days %d exceeded worked days %d",
			month, unconstrained, days)
		_, err := e.ledger.ApplyManualDelta(ctx, employeeID, month, hoursDelta, note)
		if err != nil && IsRetryable(err) {
			_, err = e.ledger.ApplyManualDelta(ctx, employeeID, month, hoursDelta, note)
		}
		if err != nil {
			summary.Warnings = append(summary.Warnings, Warning{
				Code:    WarnCorrectionPersistFailed,
				Message: fmt.Sprintf("ledger correction (%s h) not persisted: %v", hoursDelta.StringFixed(2), err),
			})
		}
	}
	return summary
}

// selectDailyRate picks between the meal-inclusive and meal-exclusive daily
// rates by testing whether a representative non-Saturday workday earns a
// meal voucher under the employee's policy. With no such day in the month,
// a standard 8-hour day is tested against the month's settings.
func (e *Engine) selectDailyRate(
	ctx context.Context,
	records []WorkDayRecord,
	resolve func(context.Context, Date) (EffectiveSettings, error),
) (decimal.Decimal, bool) {
	for _, r := range records {
		if r.IsSaturday || !r.NetHours().IsPositive() {
			continue
		}
		settings, err := resolve(ctx, r.Date)
		if err != nil {
			continue
		}
		if ClassifyWorkDay(r, settings).MealVoucher {
			return settings.TripRateWithMeal, true
		}
		return settings.TripRateWithoutMeal, false
	}

	// No representative day recorded; fall back to a nominal full day.
	var month Month
	for _, r := range records {
		month = NewMonth(r.Date.Year(), r.Date.MonthOf())
		break
	}
	if month == (Month{}) {
		// No records at all; rate only matters when an amount exists, which
		// requires records, so any sane default works here.
		return defaultTripRateWithoutMeal, false
	}
	settings, err := resolve(ctx, month.First())
	if err != nil {
		return defaultTripRateWithoutMeal, false
	}
	if ClassifyMealBenefits(decimal.NewFromInt(8), settings).MealVoucher {
		return settings.TripRateWithMeal, true
	}
	return settings.TripRateWithoutMeal, false
}
