/*
settings.go - Layered, time-versioned settings resolution

PURPOSE:
  Resolves the effective configuration for an employee on a given date by
  layering employee-specific time-versioned overrides on top of company
  defaults. The result is a flattened, fully-populated EffectiveSettings
  value: no field is ever left unresolved.

RESOLUTION ORDER (per field):
  1. The employee override row whose validity window contains the date
     (most recent ValidFrom <= date, ValidTo nil or > date)
  2. The company-wide default row
  3. A hard-coded last-resort constant (documented below per field)

  The last-resort constants only apply when the company row exists but
  leaves the field unset. If the company has no settings row AT ALL the
  resolver fails with ErrNotConfigured - a company that has never been
  configured should not silently run on built-in numbers.

NO AMBIENT STATE:
  Resolution is an explicit function of (employee, date). There is no global
  settings object; callers hold the resolver and nothing else. Resolution is
  a pure read and is cached per (employee, date) within a single run.

SEE ALSO:
  - meal.go: consumes MealAllowancePolicy and the thresholds
  - engine.go: consumes the rates and conversion fields
*/
package trip

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// POLICY ENUMS
// =============================================================================

// SaturdayHandling decides what happens to Saturday work.
type SaturdayHandling string

const (
	// SaturdayAsTrip reclassifies Saturday hours as business-trip time paid
	// at SaturdayHourlyRate; the day's overtime is zeroed.
	SaturdayAsTrip SaturdayHandling = "business_trip"

	// SaturdayAsOvertime leaves Saturday hours in the normal overtime flow.
	SaturdayAsOvertime SaturdayHandling = "overtime"
)

// MealAllowancePolicy decides which meal benefit (if any) a day can earn.
// Meal vouchers and daily allowances are mutually exclusive.
type MealAllowancePolicy string

const (
	MealPolicyDisabled       MealAllowancePolicy = "disabled"
	MealPolicyVouchersOnly   MealAllowancePolicy = "meal_vouchers_only"
	MealPolicyVouchersAlways MealAllowancePolicy = "meal_vouchers_always"
	MealPolicyDailyAllowance MealAllowancePolicy = "daily_allowance"
)

// =============================================================================
// LAST-RESORT DEFAULTS
// =============================================================================
// Applied only when the company row exists but leaves a field unset.

var (
	defaultSaturdayHandling   = SaturdayAsOvertime
	defaultSaturdayHourlyRate = decimal.NewFromInt(10)
	defaultMealPolicy         = MealPolicyDisabled
	defaultMealVoucherMin     = decimal.NewFromInt(6)  // hours
	defaultAllowanceMin       = decimal.NewFromInt(8)  // hours
	defaultAllowanceAmount    = decimal.NewFromInt(10) // EUR 10.00 per day

	// Standard Italian trasferta day rates.
	defaultTripRateWithMeal    = decimal.RequireFromString("30.98")
	defaultTripRateWithoutMeal = decimal.RequireFromString("46.48")

	defaultConversionRate = decimal.NewFromInt(12) // EUR per overtime hour
)

// =============================================================================
// SETTINGS RECORDS - Raw layered rows (nil field = inherit)
// =============================================================================

// SettingsRecord is one settings row, either company-wide defaults or an
// employee-specific override. Nil fields inherit from the layer below.
// Employee rows are time-versioned: the row applies on dates d with
// ValidFrom <= d and (ValidTo == nil or d < ValidTo). Company rows leave
// both bounds zero.
type SettingsRecord struct {
	ValidFrom Date
	ValidTo   *Date

	SaturdayHandling    *SaturdayHandling
	SaturdayHourlyRate  *decimal.Decimal
	MealAllowancePolicy *MealAllowancePolicy
	MealVoucherMinHours *decimal.Decimal
	AllowanceMinHours   *decimal.Decimal
	AllowanceAmount     *decimal.Decimal
	TripRateWithMeal    *decimal.Decimal
	TripRateWithoutMeal *decimal.Decimal

	ConversionEnabled *bool
	ConversionRate    *decimal.Decimal
	ConversionLimit   *decimal.Decimal // nil = no limit configured
}

// covers reports whether the record's validity window contains d.
func (r SettingsRecord) covers(d Date) bool {
	if r.ValidFrom.After(d) {
		return false
	}
	return r.ValidTo == nil || d.Before(*r.ValidTo)
}

// EffectiveSettings is the fully-resolved, immutable configuration for one
// employee on one date. Every field is populated.
type EffectiveSettings struct {
	SaturdayHandling    SaturdayHandling
	SaturdayHourlyRate  decimal.Decimal
	MealAllowancePolicy MealAllowancePolicy
	MealVoucherMinHours decimal.Decimal
	AllowanceMinHours   decimal.Decimal
	AllowanceAmount     decimal.Decimal
	TripRateWithMeal    decimal.Decimal
	TripRateWithoutMeal decimal.Decimal

	ConversionEnabled bool
	ConversionRate    decimal.Decimal
	ConversionLimit   *decimal.Decimal // nil = no limit; automatic conversion contributes zero
}

// =============================================================================
// RESOLVER
// =============================================================================

// SettingsResolver merges layered settings rows into EffectiveSettings.
// Safe for concurrent use; resolved values are cached per (employee, date).
type SettingsResolver struct {
	store SettingsStore

	mu    sync.RWMutex
	cache map[settingsKey]EffectiveSettings
}

type settingsKey struct {
	employee EmployeeID
	date     Date
}

func NewSettingsResolver(store SettingsStore) *SettingsResolver {
	return &SettingsResolver{
		store: store,
		cache: make(map[settingsKey]EffectiveSettings),
	}
}

// Resolve returns the effective settings for the employee on the date.
// Fails with ErrNotConfigured when the company has no settings row.
func (sr *SettingsResolver) Resolve(ctx context.Context, employeeID EmployeeID, date Date) (EffectiveSettings, error) {
	k := settingsKey{employee: employeeID, date: date}

	sr.mu.RLock()
	cached, ok := sr.cache[k]
	sr.mu.RUnlock()
	if ok {
		return cached, nil
	}

	company, err := sr.store.CompanySettings(ctx, employeeID)
	if err != nil {
		return EffectiveSettings{}, err
	}
	if company == nil {
		return EffectiveSettings{}, &NotConfiguredError{EmployeeID: employeeID}
	}

	overrides, err := sr.store.EmployeeSettings(ctx, employeeID)
	if err != nil {
		return EffectiveSettings{}, err
	}

	resolved := mergeSettings(pickOverride(overrides, date), company)

	sr.mu.Lock()
	sr.cache[k] = resolved
	sr.mu.Unlock()
	return resolved, nil
}

// pickOverride selects the employee row covering the date with the most
// recent ValidFrom. Returns nil when no row covers the date.
func pickOverride(rows []SettingsRecord, date Date) *SettingsRecord {
	sorted := make([]SettingsRecord, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ValidFrom.Before(sorted[j].ValidFrom)
	})

	var match *SettingsRecord
	for i := range sorted {
		if sorted[i].covers(date) {
			match = &sorted[i]
		}
	}
	return match
}

// mergeSettings flattens override -> company -> last-resort constants.
func mergeSettings(override *SettingsRecord, company *SettingsRecord) EffectiveSettings {
	out := EffectiveSettings{
		SaturdayHandling:    defaultSaturdayHandling,
		SaturdayHourlyRate:  defaultSaturdayHourlyRate,
		MealAllowancePolicy: defaultMealPolicy,
		MealVoucherMinHours: defaultMealVoucherMin,
		AllowanceMinHours:   defaultAllowanceMin,
		AllowanceAmount:     defaultAllowanceAmount,
		TripRateWithMeal:    defaultTripRateWithMeal,
		TripRateWithoutMeal: defaultTripRateWithoutMeal,
		ConversionEnabled:   false,
		ConversionRate:      defaultConversionRate,
		ConversionLimit:     nil,
	}

	apply := func(r *SettingsRecord) {
		if r == nil {
			return
		}
		if r.SaturdayHandling != nil {
			out.SaturdayHandling = *r.SaturdayHandling
		}
		if r.SaturdayHourlyRate != nil {
			out.SaturdayHourlyRate = *r.SaturdayHourlyRate
		}
		if r.MealAllowancePolicy != nil {
			out.MealAllowancePolicy = *r.MealAllowancePolicy
		}
		if r.MealVoucherMinHours != nil {
			out.MealVoucherMinHours = *r.MealVoucherMinHours
		}
		if r.AllowanceMinHours != nil {
			out.AllowanceMinHours = *r.AllowanceMinHours
		}
		if r.AllowanceAmount != nil {
			out.AllowanceAmount = *r.AllowanceAmount
		}
		if r.TripRateWithMeal != nil {
			out.TripRateWithMeal = *r.TripRateWithMeal
		}
		if r.TripRateWithoutMeal != nil {
			out.TripRateWithoutMeal = *r.TripRateWithoutMeal
		}
		if r.ConversionEnabled != nil {
			out.ConversionEnabled = *r.ConversionEnabled
		}
		if r.ConversionRate != nil {
			out.ConversionRate = *r.ConversionRate
		}
		if r.ConversionLimit != nil {
			limit := *r.ConversionLimit
			out.ConversionLimit = &limit
		}
	}

	// Company first, then override on top.
	apply(company)
	apply(override)
	return out
}
