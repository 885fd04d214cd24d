/*
workdays.go - Actual worked-day count

PURPOSE:
  Computes the hard ceiling the constraint engine enforces: the number of
  distinct calendar days on which the employee has a genuine work record.
  Days reclassified as business-trip days (Saturdays under SaturdayAsTrip)
  do not count, and absences never appear in the work records at all.
*/
package trip

import "context"

// ComputeActualWorkingDays counts distinct dates with total hours > 0 among
// records not reclassified as business-trip days.
func ComputeActualWorkingDays(
	ctx context.Context,
	records []WorkDayRecord,
	resolve func(context.Context, Date) (EffectiveSettings, error),
) (int, error) {
	seen := make(map[Date]bool, len(records))
	for _, r := range records {
		if !r.TotalHours.IsPositive() || seen[r.Date] {
			continue
		}
		if r.IsSaturday {
			settings, err := resolve(ctx, r.Date)
			if err != nil {
				return 0, err
			}
			if settings.SaturdayHandling == SaturdayAsTrip {
				continue
			}
		}
		seen[r.Date] = true
	}
	return len(seen), nil
}
