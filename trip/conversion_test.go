package trip_test

import (
	"context"
	"testing"
	"time"

	"github.com/timbrature/trip-engine/trip"
	"github.com/timbrature/trip-engine/trip/store"
)

func conversionSettings(limit *string) trip.EffectiveSettings {
	s := trip.EffectiveSettings{
		ConversionEnabled: true,
		ConversionRate:    dec("12.50"),
	}
	if limit != nil {
		d := dec(*limit)
		s.ConversionLimit = &d
	}
	return s
}

func strPtr(s string) *string { return &s }

func TestAutomatic_OnlyExcessAboveLimitConverts(t *testing.T) {
	cases := []struct {
		overtime string
		limit    string
		want     string
	}{
		{"30", "10", "20"},
		{"10", "10", "0"}, // boundary: at the limit, nothing converts
		{"5", "10", "0"},
		{"0", "0", "0"},
		{"30", "0", "30"}, // a zero limit converts everything
	}
	for _, c := range cases {
		got := trip.AutomaticConversionHours(dec(c.overtime), conversionSettings(strPtr(c.limit)))
		if !got.Equal(dec(c.want)) {
			t.Errorf("overtime %s limit %s: expected %s, got %s", c.overtime, c.limit, c.want, got)
		}
	}
}

func TestAutomatic_NoLimitConfigured_Zero(t *testing.T) {
	// An absent limit means "no automatic conversion", not "convert all".
	got := trip.AutomaticConversionHours(dec("30"), conversionSettings(nil))
	if !got.IsZero() {
		t.Errorf("expected zero automatic hours without a limit, got %s", got)
	}
}

func TestCompute_Disabled_PassesOvertimeThrough(t *testing.T) {
	s := conversionSettings(strPtr("10"))
	s.ConversionEnabled = false

	r := trip.ComputeConversion(dec("30"), trip.ConversionLedger{ManualHours: dec("5")}, s)
	if r.Enabled {
		t.Error("expected disabled result")
	}
	if !r.TotalHours.IsZero() || !r.Amount.IsZero() {
		t.Errorf("disabled conversion must be zero, got %s h / %s", r.TotalHours, r.Amount)
	}
	if !r.RemainingOvertime.Equal(dec("30")) {
		t.Errorf("expected all overtime to remain, got %s", r.RemainingOvertime)
	}
}

func TestCompute_AutomaticPlusManual(t *testing.T) {
	// GIVEN: 30 overtime hours, limit 10, manual 4 from the ledger
	// WHEN: computing at 12.50/h
	// THEN: 20 automatic + 4 manual = 24 hours, 300.00, 6 remain

	r := trip.ComputeConversion(dec("30"), trip.ConversionLedger{ManualHours: dec("4")}, conversionSettings(strPtr("10")))
	if !r.AutomaticHours.Equal(dec("20")) {
		t.Errorf("expected 20 automatic, got %s", r.AutomaticHours)
	}
	if !r.TotalHours.Equal(dec("24")) {
		t.Errorf("expected 24 total, got %s", r.TotalHours)
	}
	if !r.Amount.Equal(dec("300")) {
		t.Errorf("expected amount 300, got %s", r.Amount)
	}
	if !r.RemainingOvertime.Equal(dec("6")) {
		t.Errorf("expected 6 remaining, got %s", r.RemainingOvertime)
	}
}

func TestCompute_CappedAtTotalOvertime(t *testing.T) {
	// Manual hours can outgrow the month's overtime after record edits; the
	// converted total must never exceed what was worked.
	r := trip.ComputeConversion(dec("10"), trip.ConversionLedger{ManualHours: dec("15")}, conversionSettings(strPtr("0")))
	if !r.TotalHours.Equal(dec("10")) {
		t.Errorf("expected total capped at 10, got %s", r.TotalHours)
	}
	if !r.RemainingOvertime.IsZero() {
		t.Errorf("expected zero remaining, got %s", r.RemainingOvertime)
	}
}

func TestLedger_ManualDeltaClampsAtZero(t *testing.T) {
	// GIVEN: a ledger with 3 manual hours
	// WHEN: applying a -5 delta
	// THEN: manual hours clamp at 0, never negative

	mem := store.NewMemory()
	ctx := context.Background()
	month := trip.NewMonth(2025, time.March)

	if _, err := mem.ApplyManualDelta(ctx, "emp-1", month, dec("3"), "initial grant"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l, err := mem.ApplyManualDelta(ctx, "emp-1", month, dec("-5"), "over-correction")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.ManualHours.IsZero() {
		t.Errorf("expected manual hours clamped at 0, got %s", l.ManualHours)
	}
}

func TestLedger_LazyCreationAndSharedRow(t *testing.T) {
	// Both month address forms resolve to one ledger row, created on first
	// touch with zero components.
	mem := store.NewMemory()
	ctx := context.Background()

	a, err := mem.GetOrCreate(ctx, "emp-1", trip.MustParseMonth("2025-03"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.TotalHours().IsZero() {
		t.Errorf("fresh ledger must be zero, got %s", a.TotalHours())
	}

	if _, err := mem.ApplyManualDelta(ctx, "emp-1", trip.MustParseMonth("2025-03-15"), dec("2"), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := mem.GetOrCreate(ctx, "emp-1", trip.MustParseMonth("2025-03"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.ManualHours.Equal(dec("2")) {
		t.Errorf("expected the delta on the same row, got %s", b.ManualHours)
	}
}
