/*
conversion.go - Overtime-to-money conversion

PURPOSE:
  Determines how many of the month's overtime hours convert into
  business-trip monetary credit. Two components:

  AUTOMATIC: only the excess above the configured limit converts.
      automatic = max(0, total_overtime - limit)
    With no limit configured, automatic conversion contributes ZERO - the
    engine never converts an unbounded amount automatically.

  MANUAL: an administrator-entered delta held in the ledger (positive =
    convert more, negative = de-convert), clamped at >= 0 after every
    application. The constraint engine's corrective de-conversion uses the
    same delta path.

CAP:
  Total conversion is capped at total overtime, so the remaining overtime
  for payroll (original - converted) can never go negative. The upstream
  data does not always guarantee this, so the bound is enforced here.
*/
package trip

import "github.com/shopspring/decimal"

// ConversionResult is the month's overtime-conversion outcome, before the
// working-days constraint is applied.
type ConversionResult struct {
	Enabled bool

	AutomaticHours decimal.Decimal
	ManualHours    decimal.Decimal
	TotalHours     decimal.Decimal // automatic + manual, capped at total overtime
	Rate           decimal.Decimal
	Amount         decimal.Decimal // TotalHours x Rate

	// RemainingOvertime is what stays in the normal overtime flow for
	// payroll after conversion.
	RemainingOvertime decimal.Decimal
}

// AutomaticConversionHours computes the automatic component for the month's
// total overtime under the effective settings.
func AutomaticConversionHours(totalOvertime decimal.Decimal, s EffectiveSettings) decimal.Decimal {
	if !s.ConversionEnabled || s.ConversionLimit == nil {
		return decimal.Zero
	}
	excess := totalOvertime.Sub(*s.ConversionLimit)
	if excess.IsNegative() {
		return decimal.Zero
	}
	return excess
}

// ComputeConversion combines the recomputed automatic component with the
// ledger-held manual component. ledger.ManualHours is trusted to be >= 0
// (the stores clamp on write).
func ComputeConversion(totalOvertime decimal.Decimal, ledger ConversionLedger, s EffectiveSettings) ConversionResult {
	if !s.ConversionEnabled {
		return ConversionResult{
			Enabled:           false,
			Rate:              s.ConversionRate,
			RemainingOvertime: totalOvertime,
		}
	}

	automatic := AutomaticConversionHours(totalOvertime, s)
	total := automatic.Add(ledger.ManualHours)

	// Defensive bound: never convert more hours than were actually worked
	// as overtime.
	if total.GreaterThan(totalOvertime) {
		total = totalOvertime
	}

	remaining := totalOvertime.Sub(total)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return ConversionResult{
		Enabled:           true,
		AutomaticHours:    automatic,
		ManualHours:       ledger.ManualHours,
		TotalHours:        total,
		Rate:              s.ConversionRate,
		Amount:            total.Mul(s.ConversionRate),
		RemainingOvertime: remaining,
	}
}
