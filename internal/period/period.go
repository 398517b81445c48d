// Package period computes collection period boundaries for a vault. All
// functions are pure: given the same initial start, duration and reference
// date they always return the same result.
package period

import (
	"time"

	"github.com/vbonduro/memoryvault/internal/domain"
)

// Current returns the collection period containing today, derived from the
// vault's initial start date and period duration. The start advances in
// whole-duration steps from the initial start until today falls inside
// [start, start+duration). When today precedes the initial start the loop
// never advances and the first period is returned as-is; its "days left"
// will look oversized to callers, which is tolerated.
//
// start must be the first day of a month, which every vault guarantees at
// creation time.
func Current(start time.Time, duration domain.PeriodDuration, today time.Time) domain.CollectionPeriod {
	months := duration.Months()
	for !addMonths(start, months).After(today) {
		start = addMonths(start, months)
	}
	return domain.CollectionPeriod{Start: start, End: periodEnd(start, months)}
}

// All enumerates every period from the initial start through the one
// containing today, in chronological order. When today precedes the
// initial start the result is empty.
func All(start time.Time, duration domain.PeriodDuration, today time.Time) []domain.CollectionPeriod {
	months := duration.Months()
	var periods []domain.CollectionPeriod
	for cur := start; !cur.After(today); cur = addMonths(cur, months) {
		periods = append(periods, domain.CollectionPeriod{Start: cur, End: periodEnd(cur, months)})
	}
	return periods
}

// periodEnd returns the last calendar day of the month immediately
// preceding start+months. Month lengths come from the real calendar, so
// February resolves to the 28th or 29th as appropriate.
func periodEnd(start time.Time, months int) time.Time {
	next := addMonths(start, months)
	return lastOfMonth(next.AddDate(0, 0, -1))
}

// addMonths advances a first-of-month date by n calendar months. Using
// time.Date keeps the arithmetic exact for any month count, including year
// rollover, because the day component is always 1.
func addMonths(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
}

func lastOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return firstOfNext.AddDate(0, 0, -1)
}
