// Package session drives a calendar controller from line commands, holiday
// lookups and a refresh schedule on a single goroutine.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/username/calgrid/internal/calendar"
	"github.com/username/calgrid/internal/holiday"
	"github.com/username/calgrid/internal/render"
)

// Options configures a Session
type Options struct {
	Controller *calendar.Controller
	// Lookup may be nil, in which case no holidays are shown
	Lookup holiday.Lookup
	Region string
	// Refresh is a cron spec re-requesting every loaded year; empty disables it
	Refresh string

	Input  io.Reader
	Output io.Writer
	// HandleSignals stops the session on SIGINT/SIGTERM
	HandleSignals bool
	Logger        *zap.Logger
}

// Session owns the controller for the duration of Run. Every controller
// call happens on the Run goroutine; lookups and cron jobs only send events
// to it.
type Session struct {
	ctrl    *calendar.Controller
	lookup  holiday.Lookup
	region  string
	loc     *time.Location
	refresh string
	in      io.Reader
	out     io.Writer
	signals bool
	logger  *zap.Logger

	results   chan holiday.Result
	requested map[int]bool
	holidays  map[int][]time.Time // year → dates
	ctx       context.Context
}

// New creates a session
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	return &Session{
		ctrl:      opts.Controller,
		lookup:    opts.Lookup,
		region:    holiday.ResolveRegion(opts.Region),
		loc:       opts.Controller.Calendar().Location,
		refresh:   opts.Refresh,
		in:        opts.Input,
		out:       opts.Output,
		signals:   opts.HandleSignals,
		logger:    opts.Logger,
		results:   make(chan holiday.Result),
		requested: make(map[int]bool),
		holidays:  make(map[int][]time.Time),
	}
}

// Run processes events until ctx is done, the input ends, a quit command is
// read or a termination signal arrives.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.ctx = ctx

	lines := make(chan string)
	if s.in != nil {
		go readLines(ctx, s.in, lines)
	}

	refreshTick := make(chan struct{}, 1)
	if s.refresh != "" {
		c := cron.New()
		if _, err := c.AddFunc(s.refresh, func() {
			select {
			case refreshTick <- struct{}{}:
			default:
			}
		}); err != nil {
			return fmt.Errorf("invalid refresh schedule: %w", err)
		}
		c.Start()
		defer c.Stop()
	}

	var sigChan chan os.Signal
	if s.signals {
		sigChan = make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)
	}

	s.ctrl.SetObserver(calendar.ObserverFuncs{
		OnReferenceMonthChanged: func(month time.Time) {
			s.ensureYear(month.Year())
		},
	})
	defer s.ctrl.SetObserver(nil)

	s.logger.Info("Session started",
		zap.String("region", s.region),
		zap.String("refresh", s.refresh),
		zap.String("mode", s.ctrl.DisplayMode().String()))

	s.ensureVisibleYears()
	s.redraw()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Session stopped")
			return nil

		case sig := <-sigChan:
			s.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			return nil

		case line, ok := <-lines:
			if !ok {
				s.logger.Debug("Input closed")
				return nil
			}
			cmd, err := ParseCommand(line, s.loc)
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
				continue
			}
			if cmd.Action == ActionQuit {
				return nil
			}
			s.Apply(cmd)
			s.redraw()

		case r := <-s.results:
			if s.applyResult(r) {
				s.redraw()
			}

		case <-refreshTick:
			s.logger.Debug("Scheduled holiday refresh")
			s.refreshYears()
		}
	}
}

// Apply executes cmd against the controller
func (s *Session) Apply(cmd Command) {
	switch cmd.Action {
	case ActionNext:
		s.ctrl.Navigate(calendar.Forward)
	case ActionPrev:
		s.ctrl.Navigate(calendar.Backward)
	case ActionMonth:
		s.ctrl.SetDisplayMode(calendar.ModeMonth)
	case ActionWeek:
		s.ctrl.SetDisplayMode(calendar.ModeWeek)
	case ActionToday:
		s.ctrl.GoToToday()
	case ActionSelect:
		s.ctrl.SelectDate(cmd.Date)
	case ActionJump:
		s.ctrl.JumpTo(cmd.Date)
	case ActionClear:
		s.ctrl.ClearSelection()
	case ActionWeekStart:
		s.ctrl.SetWeekStart(cmd.WeekStart)
	case ActionRefresh:
		s.refreshYears()
	case ActionHelp:
		fmt.Fprintln(s.out, Help)
	}

	// grids at year boundaries show days of a neighbouring year
	s.ensureVisibleYears()
}

func (s *Session) redraw() {
	if err := render.Text(s.out, s.ctrl); err != nil {
		s.logger.Warn("Failed to draw calendar", zap.Error(err))
	}
}

func (s *Session) ensureVisibleYears() {
	s.ensureYear(s.ctrl.ReferenceMonth().Year())
	for _, d := range s.ctrl.VisibleDays() {
		s.ensureYear(d.Year())
	}
}

// ensureYear requests year once per session
func (s *Session) ensureYear(year int) {
	if s.requested[year] {
		return
	}
	s.requestYear(year)
}

func (s *Session) refreshYears() {
	years := make([]int, 0, len(s.requested))
	for y := range s.requested {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		s.requestYear(y)
	}
}

func (s *Session) requestYear(year int) {
	if s.lookup == nil || s.ctx == nil {
		return
	}
	s.requested[year] = true

	q := holiday.Query{
		Year:     year,
		Region:   s.region,
		Location: s.loc,
	}
	s.logger.Debug("Requesting holidays",
		zap.Int("year", year),
		zap.String("region", s.region))

	ctx := s.ctx
	ch := s.lookup.Fetch(ctx, q)
	go func() {
		for r := range ch {
			select {
			case s.results <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// applyResult merges one lookup delivery; it reports whether the holiday
// set changed.
func (s *Session) applyResult(r holiday.Result) bool {
	if r.Err != nil {
		s.logger.Warn("Holiday lookup failed, keeping current holidays",
			zap.Int("year", r.Query.Year),
			zap.String("region", r.Query.Region),
			zap.Error(r.Err))
		return false
	}

	s.holidays[r.Query.Year] = r.Dates

	var all []time.Time
	for _, dates := range s.holidays {
		all = append(all, dates...)
	}
	s.ctrl.SetHolidays(all)

	s.logger.Debug("Holidays applied",
		zap.Int("year", r.Query.Year),
		zap.Bool("from_cache", r.FromCache),
		zap.Int("count", len(r.Dates)))
	return true
}

func readLines(ctx context.Context, r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}
