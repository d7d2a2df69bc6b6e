package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/username/calgrid/internal/calendar"
	"github.com/username/calgrid/internal/config"
	"github.com/username/calgrid/internal/holiday"
	"github.com/username/calgrid/internal/kv"
)

const (
	fetchTimeout     = 30 * time.Second
	maxParallelYears = 4
)

// newController builds a controller from the calendar section
func newController(cfg *config.Config, initial time.Time) (*calendar.Controller, error) {
	loc, err := cfg.Calendar.GetLocation()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	return calendar.NewController(calendar.Options{
		WeekStart:        cfg.Calendar.GetWeekStart(),
		Region:           cfg.Holidays.Region,
		Location:         loc,
		Mode:             cfg.Calendar.GetDisplayMode(),
		Initial:          initial,
		SelectInitial:    cfg.Calendar.AutoSelectToday,
		DisableSelection: !cfg.Calendar.AllowsSelection,
		Logger:           logger,
	}), nil
}

// holidayRegion resolves the configured region, the locale region, then the default
func holidayRegion(cfg *config.Config) string {
	return holiday.ResolveRegion(cfg.Holidays.Region, calendar.SystemRegion())
}

// newHolidaySource builds the configured source. A holidays file next to a
// remote source serves as its fallback.
func newHolidaySource(cfg *config.Config) holiday.Source {
	var src holiday.Source
	switch cfg.Holidays.Source {
	case "file":
		return holiday.NewFileSource(cfg.Holidays.File, logger)
	case "ics":
		logger.Info("Using ICS holiday feed", zap.String("url", cfg.Holidays.ICSURL))
		src = holiday.NewICSSource(cfg.Holidays.ICSURL, logger)
	default:
		logger.Info("Using date.nager.at holiday API", zap.String("base_url", cfg.Holidays.BaseURL))
		src = holiday.NewNagerSource(cfg.Holidays.BaseURL, logger)
	}

	if cfg.Holidays.File != "" {
		src = holiday.NewCompositeSource(src, holiday.NewFileSource(cfg.Holidays.File, logger), logger)
	}
	return src
}

func openStore(cfg *config.Config) (kv.Store, error) {
	if cfg.Holidays.Cache == "memory" {
		return kv.NewMemory(), nil
	}
	store, err := kv.OpenBolt(cfg.Holidays.CachePath, "", logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday cache: %w", err)
	}
	return store, nil
}

// newLookup wires source and cache. The returned store must be closed.
func newLookup(cfg *config.Config) (*holiday.CachedLookup, kv.Store, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return holiday.NewCachedLookup(newHolidaySource(cfg), store, logger), store, nil
}

// awaitHolidays drains one lookup and returns its last successful delivery
func awaitHolidays(ctx context.Context, lookup holiday.Lookup, q holiday.Query) ([]time.Time, error) {
	var (
		dates []time.Time
		got   bool
	)
	for r := range lookup.Fetch(ctx, q) {
		if r.Err != nil {
			return nil, r.Err
		}
		dates, got = r.Dates, true
	}
	if !got {
		return nil, holiday.ErrNoData
	}
	return dates, nil
}

// fetchYears looks up several years concurrently. A failing year does not
// cancel the others; its error is joined into the returned one.
func fetchYears(ctx context.Context, lookup holiday.Lookup, region string, loc *time.Location, years []int) (map[int][]time.Time, error) {
	var g errgroup.Group
	g.SetLimit(maxParallelYears)

	var (
		mu   sync.Mutex
		errs []error
	)
	out := make(map[int][]time.Time, len(years))

	for _, year := range years {
		year := year
		g.Go(func() error {
			dates, err := awaitHolidays(ctx, lookup, holiday.Query{Year: year, Region: region, Location: loc})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("holidays for %s %d: %w", region, year, err))
				return nil
			}
			out[year] = dates
			return nil
		})
	}

	_ = g.Wait()
	return out, errors.Join(errs...)
}

// visibleYears lists the distinct years of the controller grid
func visibleYears(c *calendar.Controller) []int {
	seen := make(map[int]bool)
	var years []int
	for _, d := range c.VisibleDays() {
		if !seen[d.Year()] {
			seen[d.Year()] = true
			years = append(years, d.Year())
		}
	}
	sort.Ints(years)
	return years
}
