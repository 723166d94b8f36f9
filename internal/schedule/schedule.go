// Package schedule holds the date arithmetic for recurring maintenance.
// All next-due computation goes through NextDueDate; callers never recompute
// offsets inline.
package schedule

import (
	"fmt"
	"time"

	"github.com/upkeephq/upkeep/internal/domain"
)

// NextDueDate returns the due date that follows start for the given frequency.
//
// Fixed frequencies map to calendar increments: weekly +7d, biweekly +14d,
// monthly +1mo, quarterly +3mo, semiannual +6mo, annual +1y. Month and year
// increments clamp to the last valid day of the target month, so Jan 31 +
// monthly lands on Feb 29 in a leap year and Feb 29 + annual lands on Feb 28.
//
// The custom frequency requires a positive day count; a missing or
// non-positive count is a contract violation and returns ErrCustomDaysRequired
// rather than defaulting. For all other frequencies customDays is ignored.
//
// Pure and deterministic for a given (start, freq, customDays) triple.
func NextDueDate(start time.Time, freq domain.Frequency, customDays *int) (time.Time, error) {
	switch freq {
	case domain.FrequencyWeekly:
		return start.AddDate(0, 0, 7), nil
	case domain.FrequencyBiweekly:
		return start.AddDate(0, 0, 14), nil
	case domain.FrequencyMonthly:
		return addMonthsClamped(start, 1), nil
	case domain.FrequencyQuarterly:
		return addMonthsClamped(start, 3), nil
	case domain.FrequencySemiannual:
		return addMonthsClamped(start, 6), nil
	case domain.FrequencyAnnual:
		return addMonthsClamped(start, 12), nil
	case domain.FrequencyCustom:
		if customDays == nil || *customDays <= 0 {
			return time.Time{}, domain.ErrCustomDaysRequired
		}
		return start.AddDate(0, 0, *customDays), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s", domain.ErrInvalidFrequency, freq)
	}
}

// addMonthsClamped adds months to t, clamping the day to the last valid day of
// the target month. time.AddDate normalizes overflow instead (Jan 31 + 1 month
// becomes Mar 2/3), which is wrong for maintenance cadences.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	// Normalize the target year/month without the day in play.
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDay truncates t to midnight UTC. The overdue sweep compares due dates
// against this boundary.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
