/*
aggregate.go - Per-day fold into monthly fixed aggregates

PURPOSE:
  Walks every calendar day of the target month for one employee and produces
  the aggregates that do NOT depend on overtime conversion: ordinary and
  overtime hour totals, Saturday-as-trip hours and amount, daily-allowance
  days and amount, meal-voucher days, absence totals by type, and the
  day-by-day breakdown used to redistribute converted hours for display.

SATURDAY RECLASSIFICATION:
  When a record is a Saturday and the effective SaturdayHandling is
  business_trip, the day's overtime is zeroed (the hours are reclassified,
  not overtime anymore), the day is marked a business-trip day, and
  total_hours x saturday_hourly_rate is credited to the Saturday amount.

ACCUMULATION STYLE:
  The fold produces a fresh aggregate value each day (addDay has a value
  receiver and returns the updated copy). No accumulator object is mutated
  across iterations.
*/
package trip

import (
	"context"

	"github.com/shopspring/decimal"
)

// MonthlyAggregate holds the conversion-independent monthly totals.
type MonthlyAggregate struct {
	Month Month

	OrdinaryHours decimal.Decimal
	OvertimeHours decimal.Decimal // pre-conversion

	SaturdayHours  decimal.Decimal
	SaturdayAmount decimal.Decimal

	DailyAllowanceDays   int
	DailyAllowanceAmount decimal.Decimal
	MealVoucherDays      int

	AbsenceByType map[AbsenceType]decimal.Decimal
	Days          map[Date]DayBreakdown
}

func newMonthlyAggregate(month Month) MonthlyAggregate {
	return MonthlyAggregate{
		Month:         month,
		AbsenceByType: make(map[AbsenceType]decimal.Decimal),
		Days:          make(map[Date]DayBreakdown),
	}
}

// AggregateMonth folds the employee's records for the month into the fixed
// aggregates. The resolve function supplies effective settings per date
// (cached by the resolver, so per-day resolution is cheap).
func AggregateMonth(
	ctx context.Context,
	month Month,
	records []WorkDayRecord,
	absences []AbsenceRecord,
	resolve func(context.Context, Date) (EffectiveSettings, error),
) (MonthlyAggregate, error) {
	recordByDay := make(map[Date]WorkDayRecord, len(records))
	for _, r := range records {
		if month.Contains(r.Date) {
			recordByDay[r.Date] = r
		}
	}
	absenceByDay := make(map[Date]AbsenceRecord, len(absences))
	for _, a := range absences {
		if month.Contains(a.Date) {
			absenceByDay[a.Date] = a
		}
	}

	agg := newMonthlyAggregate(month)
	for day := 1; day <= month.Days(); day++ {
		date := month.Date(day)

		record, worked := recordByDay[date]
		absence, absent := absenceByDay[date]

		if !worked && !absent {
			continue
		}

		var settings EffectiveSettings
		if worked {
			var err error
			settings, err = resolve(ctx, date)
			if err != nil {
				return MonthlyAggregate{}, err
			}
		}

		var absencePtr *AbsenceRecord
		if absent {
			absencePtr = &absence
		}
		agg = agg.addDay(date, record, worked, absencePtr, settings)
	}
	return agg, nil
}

// addDay folds one calendar day into the aggregate and returns the updated
// copy.
func (agg MonthlyAggregate) addDay(date Date, record WorkDayRecord, worked bool, absence *AbsenceRecord, settings EffectiveSettings) MonthlyAggregate {
	breakdown := DayBreakdown{}

	if worked {
		overtime := record.OvertimeHours

		if record.IsSaturday && settings.SaturdayHandling == SaturdayAsTrip {
			// Reclassified: these hours are trip time, not overtime.
			overtime = decimal.Zero
			breakdown.IsBusinessTrip = true
			agg.SaturdayHours = agg.SaturdayHours.Add(record.TotalHours)
			agg.SaturdayAmount = agg.SaturdayAmount.Add(record.TotalHours.Mul(settings.SaturdayHourlyRate))
		}

		ordinary := record.NetHours().Sub(overtime)
		if ordinary.IsNegative() {
			ordinary = decimal.Zero
		}

		agg.OrdinaryHours = agg.OrdinaryHours.Add(ordinary)
		agg.OvertimeHours = agg.OvertimeHours.Add(overtime)
		breakdown.Ordinary = ordinary
		breakdown.Overtime = overtime

		benefits := ClassifyWorkDay(record, settings)
		if benefits.DailyAllowance {
			agg.DailyAllowanceDays++
			agg.DailyAllowanceAmount = agg.DailyAllowanceAmount.Add(settings.AllowanceAmount)
		}
		if benefits.MealVoucher {
			agg.MealVoucherDays++
		}
	}

	if absence != nil {
		t := absence.Type
		agg.AbsenceByType[t] = agg.AbsenceByType[t].Add(absence.EffectiveHours())
		breakdown.AbsenceType = &t
	}

	agg.Days[date] = breakdown
	return agg
}

// FixedAmount is the non-discretionary portion of the monthly entitlement:
// Saturday trip pay plus daily allowances. Never reduced by the constraint
// engine.
func (agg MonthlyAggregate) FixedAmount() decimal.Decimal {
	return agg.SaturdayAmount.Add(agg.DailyAllowanceAmount)
}
