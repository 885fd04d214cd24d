/*
meal.go - Meal benefit classification

PURPOSE:
  Decides, per day, whether the employee earned a meal voucher and/or a
  daily allowance. The two are mutually exclusive: a day earns at most one,
  selected by the effective MealAllowancePolicy.

HOURS DEFINITION:
  Eligibility always tests NET worked hours (WorkDayRecord.NetHours, total
  minus lunch) - the same figure the payroll totals use. Testing gross hours
  here would let voucher eligibility and hour totals disagree.
*/
package trip

import "github.com/shopspring/decimal"

// MealBenefits is the per-day classification result. At most one field is
// true.
type MealBenefits struct {
	MealVoucher    bool
	DailyAllowance bool
}

// ClassifyMealBenefits applies the effective meal policy to a day's net
// worked hours. Pure and side-effect free.
func ClassifyMealBenefits(netHours decimal.Decimal, s EffectiveSettings) MealBenefits {
	switch s.MealAllowancePolicy {
	case MealPolicyVouchersOnly:
		return MealBenefits{MealVoucher: netHours.GreaterThanOrEqual(s.MealVoucherMinHours)}
	case MealPolicyVouchersAlways:
		// Any recorded work at all earns the voucher.
		return MealBenefits{MealVoucher: netHours.IsPositive()}
	case MealPolicyDailyAllowance:
		return MealBenefits{DailyAllowance: netHours.GreaterThanOrEqual(s.AllowanceMinHours)}
	default: // MealPolicyDisabled or unset
		return MealBenefits{}
	}
}

// ClassifyWorkDay is the record-level convenience wrapper.
func ClassifyWorkDay(r WorkDayRecord, s EffectiveSettings) MealBenefits {
	return ClassifyMealBenefits(r.NetHours(), s)
}
