/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the engine's decimal
  domain model from the external contract. Amounts and hours are serialized
  as float64 for client convenience; the engine itself never computes on
  floats.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/timbrature/trip-engine/trip"
)

// =============================================================================
// SUMMARY
// =============================================================================

type SummaryDTO struct {
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`

	OrdinaryHours float64 `json:"ordinary_hours"`
	OvertimeHours float64 `json:"overtime_hours"`

	SaturdayHours  float64 `json:"saturday_hours"`
	SaturdayAmount float64 `json:"saturday_amount"`

	DailyAllowanceDays   int     `json:"daily_allowance_days"`
	DailyAllowanceAmount float64 `json:"daily_allowance_amount"`
	MealVoucherDays      int     `json:"meal_voucher_days"`

	ConversionHours  float64 `json:"overtime_conversion_hours"`
	ConversionAmount float64 `json:"overtime_conversion_amount"`

	TotalAmount       float64 `json:"total_business_trip_amount"`
	StandardizedDays  int     `json:"standardized_business_trip_days"`
	DailyRate         float64 `json:"daily_business_trip_rate"`
	AdjustedTripHours float64 `json:"adjusted_trip_hours"`
	ActualWorkingDays int     `json:"actual_working_days"`
	MealInclusiveRate bool    `json:"meal_inclusive_rate"`

	AbsenceByType map[string]float64 `json:"absence_hours_by_type,omitempty"`
	Days          []DayDTO           `json:"days,omitempty"`

	Warnings []WarningDTO `json:"warnings,omitempty"`
}

type DayDTO struct {
	Date           string  `json:"date"`
	Ordinary       float64 `json:"ordinary_hours"`
	Overtime       float64 `json:"overtime_hours"`
	AbsenceType    string  `json:"absence_type,omitempty"`
	IsBusinessTrip bool    `json:"is_business_trip"`
}

type WarningDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toSummaryDTO(s *trip.MonthlySummary) SummaryDTO {
	dto := SummaryDTO{
		EmployeeID:           string(s.EmployeeID),
		Month:                s.Month.String(),
		OrdinaryHours:        f(s.OrdinaryHours),
		OvertimeHours:        f(s.OvertimeHours),
		SaturdayHours:        f(s.SaturdayHours),
		SaturdayAmount:       f(s.SaturdayAmount),
		DailyAllowanceDays:   s.DailyAllowanceDays,
		DailyAllowanceAmount: f(s.DailyAllowanceAmount),
		MealVoucherDays:      s.MealVoucherDays,
		ConversionHours:      f(s.ConversionHours),
		ConversionAmount:     f(s.ConversionAmount),
		TotalAmount:          f(s.TotalAmount),
		StandardizedDays:     s.StandardizedDays,
		DailyRate:            f(s.DailyRate),
		AdjustedTripHours:    f(s.AdjustedTripHours),
		ActualWorkingDays:    s.ActualWorkingDays,
		MealInclusiveRate:    s.MealInclusiveRate,
	}
	if len(s.AbsenceByType) > 0 {
		dto.AbsenceByType = make(map[string]float64, len(s.AbsenceByType))
		for t, h := range s.AbsenceByType {
			dto.AbsenceByType[string(t)] = f(h)
		}
	}
	for date, day := range s.Days {
		d := DayDTO{
			Date:           date.String(),
			Ordinary:       f(day.Ordinary),
			Overtime:       f(day.Overtime),
			IsBusinessTrip: day.IsBusinessTrip,
		}
		if day.AbsenceType != nil {
			d.AbsenceType = string(*day.AbsenceType)
		}
		dto.Days = append(dto.Days, d)
	}
	for _, w := range s.Warnings {
		dto.Warnings = append(dto.Warnings, WarningDTO{Code: string(w.Code), Message: w.Message})
	}
	return dto
}

// =============================================================================
// BATCH
// =============================================================================

type ComputeBatchRequest struct {
	Month       string   `json:"month"` // "YYYY-MM" or "YYYY-MM-DD"
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

type BatchResultDTO struct {
	EmployeeID string      `json:"employee_id"`
	Summary    *SummaryDTO `json:"summary,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// =============================================================================
// LEDGER
// =============================================================================

type LedgerDTO struct {
	EmployeeID     string  `json:"employee_id"`
	Month          string  `json:"month"`
	AutomaticHours float64 `json:"automatic_conversion_hours"`
	ManualHours    float64 `json:"manual_conversion_hours"`
	TotalHours     float64 `json:"total_conversion_hours"`
	Notes          string  `json:"notes,omitempty"`
}

func toLedgerDTO(l trip.ConversionLedger) LedgerDTO {
	return LedgerDTO{
		EmployeeID:     string(l.EmployeeID),
		Month:          l.Month.String(),
		AutomaticHours: f(l.AutomaticHours),
		ManualHours:    f(l.ManualHours),
		TotalHours:     f(l.TotalHours()),
		Notes:          l.Notes,
	}
}

type ManualDeltaRequest struct {
	Month      string  `json:"month"`
	DeltaHours float64 `json:"delta_hours"`
	Note       string  `json:"note,omitempty"`
}

type CorrectionDTO struct {
	DeltaHours float64 `json:"delta_hours"`
	Note       string  `json:"note,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// =============================================================================
// INGESTION
// =============================================================================

type EmployeeRequest struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name,omitempty"`
}

type WorkDayRequest struct {
	Date          string  `json:"date"`
	TotalHours    float64 `json:"total_hours"`
	LunchHours    float64 `json:"lunch_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	IsSaturday    bool    `json:"is_saturday"`
	IsHoliday     bool    `json:"is_holiday"`
}

type AbsenceRequest struct {
	Date  string  `json:"date"`
	Type  string  `json:"absence_type"`
	Hours float64 `json:"hours,omitempty"`
}

// SettingsRequest mirrors trip.SettingsRecord: absent fields inherit from
// the layer below.
type SettingsRequest struct {
	ValidFrom string  `json:"valid_from,omitempty"` // employee rows only
	ValidTo   *string `json:"valid_to,omitempty"`

	SaturdayHandling    *string  `json:"saturday_handling,omitempty"`
	SaturdayHourlyRate  *float64 `json:"saturday_hourly_rate,omitempty"`
	MealAllowancePolicy *string  `json:"meal_allowance_policy,omitempty"`
	MealVoucherMinHours *float64 `json:"meal_voucher_min_hours,omitempty"`
	AllowanceMinHours   *float64 `json:"daily_allowance_min_hours,omitempty"`
	AllowanceAmount     *float64 `json:"daily_allowance_amount,omitempty"`
	TripRateWithMeal    *float64 `json:"business_trip_rate_with_meal,omitempty"`
	TripRateWithoutMeal *float64 `json:"business_trip_rate_without_meal,omitempty"`
	ConversionEnabled   *bool    `json:"overtime_conversion_enabled,omitempty"`
	ConversionRate      *float64 `json:"overtime_conversion_rate,omitempty"`
	ConversionLimit     *float64 `json:"overtime_conversion_limit,omitempty"`
}

func (r SettingsRequest) toRecord() (trip.SettingsRecord, error) {
	rec := trip.SettingsRecord{}
	if r.ValidFrom != "" {
		d, err := trip.ParseDate(r.ValidFrom)
		if err != nil {
			return rec, err
		}
		rec.ValidFrom = d
	}
	if r.ValidTo != nil {
		d, err := trip.ParseDate(*r.ValidTo)
		if err != nil {
			return rec, err
		}
		rec.ValidTo = &d
	}
	if r.SaturdayHandling != nil {
		v := trip.SaturdayHandling(*r.SaturdayHandling)
		rec.SaturdayHandling = &v
	}
	if r.MealAllowancePolicy != nil {
		v := trip.MealAllowancePolicy(*r.MealAllowancePolicy)
		rec.MealAllowancePolicy = &v
	}
	rec.SaturdayHourlyRate = dec(r.SaturdayHourlyRate)
	rec.MealVoucherMinHours = dec(r.MealVoucherMinHours)
	rec.AllowanceMinHours = dec(r.AllowanceMinHours)
	rec.AllowanceAmount = dec(r.AllowanceAmount)
	rec.TripRateWithMeal = dec(r.TripRateWithMeal)
	rec.TripRateWithoutMeal = dec(r.TripRateWithoutMeal)
	rec.ConversionEnabled = r.ConversionEnabled
	rec.ConversionRate = dec(r.ConversionRate)
	rec.ConversionLimit = dec(r.ConversionLimit)
	return rec, nil
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func f(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func dec(p *float64) *decimal.Decimal {
	if p == nil {
		return nil
	}
	d := decimal.NewFromFloat(*p)
	return &d
}
