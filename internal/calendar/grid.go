package calendar

import (
	"time"

	"github.com/username/calgrid/pkg/dateutil"
)

const daysPerWeek = 7

// MonthGrid returns the full weeks covering the month that contains month.
// It starts on the first weekday on or before the 1st and ends the day before
// the first weekday on or after the 1st of the following month, so its length
// is 28, 35 or 42. An unresolvable calendar yields nil.
func MonthGrid(month time.Time, cal Calendar) []time.Time {
	if !cal.valid() {
		return nil
	}

	first := cal.StartOfMonth(month)
	start := dateutil.StartOfWeek(first, cal.FirstWeekday)
	end := dateutil.NextWeekday(dateutil.AddMonths(first, 1), cal.FirstWeekday)

	n := dateutil.DaysBetween(start, end)
	if n <= 0 || n%daysPerWeek != 0 || n > 6*daysPerWeek {
		return nil
	}
	return run(start, n)
}

// WeekGrid returns the seven days of the week containing anchor. An
// unresolvable calendar yields nil.
func WeekGrid(anchor time.Time, cal Calendar) []time.Time {
	if !cal.valid() {
		return nil
	}
	return run(cal.StartOfWeek(anchor), daysPerWeek)
}

func run(start time.Time, n int) []time.Time {
	days := make([]time.Time, n)
	for i := range days {
		days[i] = dateutil.AddDays(start, i)
	}
	return days
}
