// Package dateutil provides day-granularity calendar arithmetic for due
// dates. time.AddDate overflows short months (Jan 31 + 1 month lands in
// March), so month and year steps here clamp to the last day of the target
// month instead.
package dateutil

import "time"

// DateOnly truncates a timestamp to UTC midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances t by n calendar months, clamping the day of month to
// the last valid day of the target month.
func AddMonths(t time.Time, n int) time.Time {
	t = DateOnly(t)
	year, month, day := t.Date()

	total := int(month) - 1 + n
	targetYear := year + total/12
	targetMonth := time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero.
		targetYear = year + (total-11)/12
		targetMonth = time.Month((total%12+12)%12 + 1)
	}

	if last := daysIn(targetYear, targetMonth); day > last {
		day = last
	}
	return time.Date(targetYear, targetMonth, day, 0, 0, 0, 0, time.UTC)
}

// AddYears advances t by n calendar years, clamping Feb 29 to Feb 28 in
// non-leap target years.
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

// DaysUntil returns the number of whole calendar days from `from` to `to`.
// Negative when `to` is in the past.
func DaysUntil(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
