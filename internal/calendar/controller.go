package calendar

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/username/calgrid/pkg/dateutil"
)

// HolidayProvider decides holiday status on its own, replacing the holiday
// set entirely when installed.
type HolidayProvider func(date time.Time, cal Calendar) bool

// CellFlags are the per-cell annotations a renderer needs
type CellFlags struct {
	InCurrentPeriod bool
	Today           bool
	Selected        bool
	Holiday         bool
}

// Cell is a visible day with its flags
type Cell struct {
	Date time.Time
	CellFlags
}

// Options configures a new Controller
type Options struct {
	WeekStart WeekStart
	// Region drives WeekStartSystem; empty means the process locale region
	Region   string
	Location *time.Location
	Mode     DisplayMode

	// Initial is the starting reference date; zero means today
	Initial time.Time
	// SelectInitial selects the starting reference date
	SelectInitial    bool
	DisableSelection bool

	Now    func() time.Time
	Logger *zap.Logger
}

// Controller owns the calendar state and applies every transition. It is not
// safe for concurrent use; all calls must come from one goroutine.
type Controller struct {
	cal       Calendar
	weekStart WeekStart
	region    string

	mode      DisplayMode
	reference time.Time // first day of the displayed month
	anchor    time.Time // day whose week is shown in week mode

	selected        time.Time
	hasSelection    bool
	allowsSelection bool

	holidays        map[string]time.Time
	holidayProvider HolidayProvider

	days []time.Time
	rows int

	observer Observer
	now      func() time.Time
	logger   *zap.Logger
}

// NewController creates a controller in month mode on opts.Initial (or
// today) and then switches to opts.Mode.
func NewController(opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Region == "" && opts.WeekStart == WeekStartSystem {
		opts.Region = SystemRegion()
	}

	c := &Controller{
		cal: Calendar{
			Location:     opts.Location,
			FirstWeekday: opts.WeekStart.FirstWeekday(opts.Region),
		},
		weekStart:       opts.WeekStart,
		region:          opts.Region,
		mode:            ModeMonth,
		allowsSelection: !opts.DisableSelection,
		holidays:        make(map[string]time.Time),
		observer:        nopObserver{},
		now:             opts.Now,
		logger:          opts.Logger,
	}

	initial := c.Today()
	if !opts.Initial.IsZero() {
		initial = c.cal.StartOfDay(opts.Initial)
	}
	c.reference = c.cal.StartOfMonth(initial)
	c.anchor = initial
	// week mode always has a selection; start it on initial, not today
	if opts.SelectInitial || opts.Mode == ModeWeek {
		c.selected, c.hasSelection = initial, true
	}
	c.recompute()

	if opts.Mode == ModeWeek {
		c.SetDisplayMode(ModeWeek)
	}

	c.logger.Debug("Calendar controller created",
		zap.String("mode", c.mode.String()),
		zap.String("week_start", c.weekStart.String()),
		zap.String("first_weekday", c.cal.FirstWeekday.String()),
		zap.Time("reference", c.reference))

	return c
}

// SetObserver replaces the observer slot; nil removes it
func (c *Controller) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	c.observer = o
}

// SetAllowsSelection enables or disables SelectDate
func (c *Controller) SetAllowsSelection(allowed bool) {
	c.allowsSelection = allowed
}

// AllowsSelection reports whether SelectDate has effect
func (c *Controller) AllowsSelection() bool {
	return c.allowsSelection
}

// SelectDate selects the day containing date. Neither the reference month nor
// the week anchor moves.
func (c *Controller) SelectDate(date time.Time) {
	if !c.allowsSelection {
		return
	}

	d := c.cal.StartOfDay(date)
	changed := !c.hasSelection || !d.Equal(c.selected)
	c.selected, c.hasSelection = d, true

	if changed && c.mode == ModeWeek {
		c.recompute()
	}

	c.logger.Debug("Date selected", zap.Time("date", d))
	c.observer.SelectionChanged(d)
}

// ClearSelection removes the selection
func (c *Controller) ClearSelection() {
	if !c.hasSelection {
		return
	}
	c.selected, c.hasSelection = time.Time{}, false
	c.observer.SelectionChanged(time.Time{})
}

// SetReferenceMonth shows the month containing date. In week mode the week
// containing date is shown.
func (c *Controller) SetReferenceMonth(date time.Time) {
	d := c.cal.StartOfDay(date)
	c.reference = c.cal.StartOfMonth(d)
	if c.mode == ModeWeek {
		c.anchor = d
	}
	c.recompute()

	c.logger.Debug("Reference month set", zap.Time("reference", c.reference))
	c.observer.ReferenceMonthChanged(c.reference)
}

// Navigate pages one month (month mode) or one week (week mode). Month paging
// clears the selection; week paging moves the selection with the week.
func (c *Controller) Navigate(dir Direction) {
	off := dir.offset()

	if c.mode == ModeMonth {
		hadSelection := c.hasSelection
		c.selected, c.hasSelection = time.Time{}, false
		c.reference = dateutil.AddMonths(c.reference, off)
		c.recompute()

		c.logger.Debug("Navigated month",
			zap.Int("offset", off),
			zap.Time("reference", c.reference))
		if hadSelection {
			c.observer.SelectionChanged(time.Time{})
		}
		c.observer.ReferenceMonthChanged(c.reference)
		return
	}

	base := c.reference
	if c.hasSelection {
		base = c.selected
	}
	next := dateutil.AddDays(base, off*daysPerWeek)

	c.selected, c.hasSelection = next, true
	c.anchor = next
	c.reference = c.cal.StartOfMonth(next)
	c.recompute()

	c.logger.Debug("Navigated week",
		zap.Int("offset", off),
		zap.Time("selected", next))
	c.observer.SelectionChanged(next)
	c.observer.ReferenceMonthChanged(c.reference)
}

// SetDisplayMode switches between month and week grids. Entering week mode
// selects today when nothing is selected and re-derives the reference month
// from the selection; leaving it keeps reference and selection as they are.
func (c *Controller) SetDisplayMode(mode DisplayMode) {
	if mode == c.mode {
		return
	}
	c.mode = mode

	selectionChanged, monthChanged := false, false
	if mode == ModeWeek {
		if !c.hasSelection {
			c.selected, c.hasSelection = c.Today(), true
			selectionChanged = true
		}
		ref := c.cal.StartOfMonth(c.selected)
		monthChanged = !ref.Equal(c.reference)
		c.reference = ref
		c.anchor = c.selected
	}
	c.recompute()

	c.logger.Debug("Display mode changed",
		zap.String("mode", mode.String()),
		zap.Int("rows", c.rows))
	if selectionChanged {
		c.observer.SelectionChanged(c.selected)
	}
	if monthChanged {
		c.observer.ReferenceMonthChanged(c.reference)
	}
	c.observer.DisplayModeChanged(mode)
}

// SetWeekStart changes the week convention and regenerates the grid
func (c *Controller) SetWeekStart(ws WeekStart) {
	if ws == WeekStartSystem && c.region == "" {
		c.region = SystemRegion()
	}
	c.weekStart = ws
	c.cal.FirstWeekday = ws.FirstWeekday(c.region)
	// selection and holidays are normalized by location only, so they stay valid
	c.recompute()

	c.logger.Debug("Week start changed",
		zap.String("week_start", ws.String()),
		zap.String("first_weekday", c.cal.FirstWeekday.String()))
}

// GoToToday shows and selects today
func (c *Controller) GoToToday() {
	c.JumpTo(c.Today())
}

// JumpTo shows and selects date
func (c *Controller) JumpTo(date time.Time) {
	c.SetReferenceMonth(date)
	c.SelectDate(date)
}

// SetHolidays replaces the holiday set
func (c *Controller) SetHolidays(dates []time.Time) {
	set := make(map[string]time.Time, len(dates))
	for _, d := range dates {
		n := c.cal.StartOfDay(d)
		set[dateutil.FormatISODate(n)] = n
	}
	c.holidays = set

	c.logger.Debug("Holidays replaced", zap.Int("count", len(set)))
}

// SetHolidayProvider installs a predicate that overrides the holiday set;
// nil restores set lookups.
func (c *Controller) SetHolidayProvider(p HolidayProvider) {
	c.holidayProvider = p
}

// Holidays returns the holiday set in ascending order
func (c *Controller) Holidays() []time.Time {
	out := make([]time.Time, 0, len(c.holidays))
	for _, d := range c.holidays {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// IsHoliday reports whether date is a holiday
func (c *Controller) IsHoliday(date time.Time) bool {
	if c.holidayProvider != nil {
		return c.holidayProvider(date, c.cal)
	}
	_, ok := c.holidays[dateutil.FormatISODate(c.cal.StartOfDay(date))]
	return ok
}

// CellFlags derives the annotations of date against the current state
func (c *Controller) CellFlags(date time.Time) CellFlags {
	d := c.cal.StartOfDay(date)
	return CellFlags{
		InCurrentPeriod: c.mode == ModeWeek || c.cal.SameMonth(d, c.reference),
		Today:           c.cal.SameDay(d, c.now()),
		Selected:        c.hasSelection && d.Equal(c.selected),
		Holiday:         c.IsHoliday(d),
	}
}

// Cells returns the visible days with their flags
func (c *Controller) Cells() []Cell {
	cells := make([]Cell, len(c.days))
	for i, d := range c.days {
		cells[i] = Cell{Date: d, CellFlags: c.CellFlags(d)}
	}
	return cells
}

// VisibleDays returns a copy of the visible grid
func (c *Controller) VisibleDays() []time.Time {
	out := make([]time.Time, len(c.days))
	copy(out, c.days)
	return out
}

// RowCount is the number of week rows currently visible
func (c *Controller) RowCount() int {
	return c.rows
}

// ReferenceMonth returns the first day of the displayed month
func (c *Controller) ReferenceMonth() time.Time {
	return c.reference
}

// SelectedDate returns the selection, if any
func (c *Controller) SelectedDate() (time.Time, bool) {
	return c.selected, c.hasSelection
}

// DisplayMode returns the current mode
func (c *Controller) DisplayMode() DisplayMode {
	return c.mode
}

// WeekStart returns the configured convention
func (c *Controller) WeekStart() WeekStart {
	return c.weekStart
}

// Calendar returns the resolved calendar system
func (c *Controller) Calendar() Calendar {
	return c.cal
}

// WeekdayOrder returns weekday labels order for the current week start
func (c *Controller) WeekdayOrder() []time.Weekday {
	return c.cal.WeekdayOrder()
}

// TitleDate is the date a header should name: the selection (or reference)
// in week mode and the reference month in month mode.
func (c *Controller) TitleDate() time.Time {
	if c.mode == ModeWeek && c.hasSelection {
		return c.selected
	}
	return c.reference
}

// Today returns the current day in the controller's zone
func (c *Controller) Today() time.Time {
	return c.cal.StartOfDay(c.now())
}

func (c *Controller) recompute() {
	if c.mode == ModeWeek {
		c.days = WeekGrid(c.anchor, c.cal)
	} else {
		c.days = MonthGrid(c.reference, c.cal)
	}

	rows := len(c.days) / daysPerWeek
	if c.mode == ModeWeek {
		rows = 1
	}
	if rows != c.rows {
		c.rows = rows
		c.observer.RequiredRowsChanged(rows)
	}
}
