// Package calendar generates month and week date grids and holds the
// selection, navigation and display-mode state of a calendar widget.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/calgrid/pkg/dateutil"
)

// WeekStart selects which weekday begins a grid row
type WeekStart int

const (
	WeekStartSystem WeekStart = iota
	WeekStartSunday
	WeekStartMonday
)

// ParseWeekStart parses "system", "sunday" or "monday"
func ParseWeekStart(s string) (WeekStart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "system":
		return WeekStartSystem, nil
	case "sunday", "sun":
		return WeekStartSunday, nil
	case "monday", "mon":
		return WeekStartMonday, nil
	default:
		return WeekStartSystem, fmt.Errorf("unknown week start %q", s)
	}
}

func (w WeekStart) String() string {
	switch w {
	case WeekStartSunday:
		return "sunday"
	case WeekStartMonday:
		return "monday"
	default:
		return "system"
	}
}

// FirstWeekday resolves w to a concrete weekday. WeekStartSystem uses the
// convention of region.
func (w WeekStart) FirstWeekday(region string) time.Weekday {
	switch w {
	case WeekStartSunday:
		return time.Sunday
	case WeekStartMonday:
		return time.Monday
	default:
		return RegionFirstWeekday(region)
	}
}

// DisplayMode selects the grid shape
type DisplayMode int

const (
	ModeMonth DisplayMode = iota
	ModeWeek
)

// ParseDisplayMode parses "month" or "week"
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month":
		return ModeMonth, nil
	case "week":
		return ModeWeek, nil
	default:
		return ModeMonth, fmt.Errorf("unknown display mode %q", s)
	}
}

func (m DisplayMode) String() string {
	if m == ModeWeek {
		return "week"
	}
	return "month"
}

// Direction of a paging gesture
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) offset() int {
	if d == Backward {
		return -1
	}
	return 1
}

// Calendar is the active calendar system: the zone days are cut in and the
// weekday that starts each week.
type Calendar struct {
	Location     *time.Location
	FirstWeekday time.Weekday
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Calendar) valid() bool {
	return c.FirstWeekday >= time.Sunday && c.FirstWeekday <= time.Saturday
}

// StartOfDay normalizes t to midnight of its day in the calendar's zone
func (c Calendar) StartOfDay(t time.Time) time.Time {
	return dateutil.StartOfDay(t.In(c.location()))
}

// StartOfMonth normalizes t to the first day of its month
func (c Calendar) StartOfMonth(t time.Time) time.Time {
	return dateutil.StartOfMonth(t.In(c.location()))
}

// StartOfWeek returns the first day of the week containing t
func (c Calendar) StartOfWeek(t time.Time) time.Time {
	return dateutil.StartOfWeek(t.In(c.location()), c.FirstWeekday)
}

// SameDay reports whether a and b fall on the same day in the calendar's zone
func (c Calendar) SameDay(a, b time.Time) bool {
	return dateutil.IsSameDay(a.In(c.location()), b.In(c.location()))
}

// SameMonth reports whether a and b fall in the same month
func (c Calendar) SameMonth(a, b time.Time) bool {
	return dateutil.IsSameMonth(a.In(c.location()), b.In(c.location()))
}

// WeekdayOrder returns the seven weekdays beginning at the first weekday
func (c Calendar) WeekdayOrder() []time.Weekday {
	if !c.valid() {
		return nil
	}
	out := make([]time.Weekday, 7)
	for i := range out {
		out[i] = time.Weekday((int(c.FirstWeekday) + i) % 7)
	}
	return out
}
