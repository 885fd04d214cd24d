package trip_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/timbrature/trip-engine/trip"
	"github.com/timbrature/trip-engine/trip/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func boolPtr(b bool) *bool { return &b }

func saturdayPtr(h trip.SaturdayHandling) *trip.SaturdayHandling { return &h }

func mealPtr(p trip.MealAllowancePolicy) *trip.MealAllowancePolicy { return &p }

func date(y int, m time.Month, d int) trip.Date {
	return trip.NewDate(y, m, d)
}

// =============================================================================
// RESOLUTION TESTS
// =============================================================================

func TestResolve_NoCompanySettings_NotConfigured(t *testing.T) {
	// GIVEN: an employee whose company has no settings row at all
	// WHEN: resolving
	// THEN: ErrNotConfigured

	mem := store.NewMemory()
	resolver := trip.NewSettingsResolver(mem)

	_, err := resolver.Resolve(context.Background(), "emp-1", date(2025, time.March, 10))
	if !errors.Is(err, trip.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestResolve_CompanyDefaultsWithLastResortConstants(t *testing.T) {
	// GIVEN: a company row that only sets the Saturday rate
	// WHEN: resolving
	// THEN: the set field comes from the company, unset fields fall back to
	//       the documented last-resort constants

	mem := store.NewMemory()
	mem.SetCompanySettings("emp-1", trip.SettingsRecord{
		SaturdayHourlyRate: decPtr("25"),
	})
	resolver := trip.NewSettingsResolver(mem)

	s, err := resolver.Resolve(context.Background(), "emp-1", date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.SaturdayHourlyRate.Equal(dec("25")) {
		t.Errorf("expected company rate 25, got %s", s.SaturdayHourlyRate)
	}
	if !s.AllowanceAmount.Equal(dec("10")) {
		t.Errorf("expected last-resort allowance 10.00, got %s", s.AllowanceAmount)
	}
	if !s.TripRateWithMeal.Equal(dec("30.98")) {
		t.Errorf("expected last-resort rate with meal 30.98, got %s", s.TripRateWithMeal)
	}
	if !s.TripRateWithoutMeal.Equal(dec("46.48")) {
		t.Errorf("expected last-resort rate without meal 46.48, got %s", s.TripRateWithoutMeal)
	}
	if !s.ConversionRate.Equal(dec("12")) {
		t.Errorf("expected last-resort conversion rate 12.00, got %s", s.ConversionRate)
	}
	if s.ConversionEnabled {
		t.Error("conversion should default to disabled")
	}
	if s.ConversionLimit != nil {
		t.Error("conversion limit should default to unconfigured")
	}
}

func TestResolve_EmployeeOverrideWinsInsideValidityWindow(t *testing.T) {
	// GIVEN: company defaults plus an employee override valid Feb 1 - Apr 1
	// WHEN: resolving inside and outside the window
	// THEN: the override applies only inside, field-by-field

	mem := store.NewMemory()
	mem.SetCompanySettings("emp-1", trip.SettingsRecord{
		SaturdayHandling:   saturdayPtr(trip.SaturdayAsOvertime),
		SaturdayHourlyRate: decPtr("20"),
	})
	validTo := date(2025, time.April, 1)
	mem.AddEmployeeSettings("emp-1", trip.SettingsRecord{
		ValidFrom:          date(2025, time.February, 1),
		ValidTo:            &validTo,
		SaturdayHandling:   saturdayPtr(trip.SaturdayAsTrip),
		// SaturdayHourlyRate left nil: inherits the company value
	})
	resolver := trip.NewSettingsResolver(mem)
	ctx := context.Background()

	inside, err := resolver.Resolve(ctx, "emp-1", date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inside.SaturdayHandling != trip.SaturdayAsTrip {
		t.Errorf("expected override business_trip inside window, got %s", inside.SaturdayHandling)
	}
	if !inside.SaturdayHourlyRate.Equal(dec("20")) {
		t.Errorf("expected inherited company rate 20, got %s", inside.SaturdayHourlyRate)
	}

	outside, err := resolver.Resolve(ctx, "emp-1", date(2025, time.April, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outside.SaturdayHandling != trip.SaturdayAsOvertime {
		t.Errorf("expected company default outside window, got %s", outside.SaturdayHandling)
	}
}

func TestResolve_MostRecentValidFromWins(t *testing.T) {
	// GIVEN: two open-ended employee rows with different ValidFrom dates
	// WHEN: resolving a date both rows cover
	// THEN: the more recent row applies

	mem := store.NewMemory()
	mem.SetCompanySettings("emp-1", trip.SettingsRecord{})
	mem.AddEmployeeSettings("emp-1", trip.SettingsRecord{
		ValidFrom:       date(2024, time.January, 1),
		AllowanceAmount: decPtr("11"),
	})
	mem.AddEmployeeSettings("emp-1", trip.SettingsRecord{
		ValidFrom:       date(2025, time.January, 1),
		AllowanceAmount: decPtr("13"),
	})
	resolver := trip.NewSettingsResolver(mem)

	s, err := resolver.Resolve(context.Background(), "emp-1", date(2025, time.June, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.AllowanceAmount.Equal(dec("13")) {
		t.Errorf("expected the 2025 row to win, got allowance %s", s.AllowanceAmount)
	}
}
