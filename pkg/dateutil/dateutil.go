package dateutil

import (
	"fmt"
	"time"
)

// ISODate is the layout used for day-granular dates on the wire and in caches
const ISODate = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// StartOfMonth returns the first day of the month containing date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// StartOfWeek returns the most recent occurrence of first on or before date
func StartOfWeek(date time.Time, first time.Weekday) time.Time {
	back := (int(date.Weekday()) - int(first) + 7) % 7
	return time.Date(date.Year(), date.Month(), date.Day()-back, 0, 0, 0, 0, date.Location())
}

// NextWeekday returns the first occurrence of wd on or after date
func NextWeekday(date time.Time, wd time.Weekday) time.Time {
	ahead := (int(wd) - int(date.Weekday()) + 7) % 7
	return time.Date(date.Year(), date.Month(), date.Day()+ahead, 0, 0, 0, 0, date.Location())
}

// AddDays shifts date by n calendar days keeping midnight alignment
func AddDays(date time.Time, n int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day()+n, 0, 0, 0, 0, date.Location())
}

// AddMonths returns the first day of the month n months away from date
func AddMonths(date time.Time, n int) time.Time {
	return time.Date(date.Year(), date.Month()+time.Month(n), 1, 0, 0, 0, 0, date.Location())
}

// DaysBetween returns the number of calendar days from a to b
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// IsSameMonth returns true if two dates are in the same month of the same year
func IsSameMonth(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() && date1.Month() == date2.Month()
}

// FormatISODate formats date as YYYY-MM-DD
func FormatISODate(date time.Time) string {
	return date.Format(ISODate)
}

// ParseDate parses date string in various formats, interpreting it in loc
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	formats := []string{
		ISODate,
		"02.01.2006",
		"20060102",
		"2006-01-02T15:04:05",
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// Today returns today's date (start of day) in loc
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return StartOfDay(time.Now().In(loc))
}
