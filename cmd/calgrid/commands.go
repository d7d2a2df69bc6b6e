package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/calgrid/internal/calendar"
	"github.com/username/calgrid/internal/holiday"
	"github.com/username/calgrid/internal/render"
	"github.com/username/calgrid/internal/session"
	"github.com/username/calgrid/pkg/dateutil"
)

func showCmd() *cobra.Command {
	var week bool
	var weekStart string
	var noSelect bool
	var noHolidays bool

	cmd := &cobra.Command{
		Use:   "show [DATE]",
		Short: "Print the month (or week) grid containing DATE",
		Long:  "Print the grid for DATE (YYYY-MM-DD, default: today) with today, selection and holiday markers.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := cfg.Calendar.GetLocation()
			if err != nil {
				return err
			}

			var initial time.Time
			if len(args) == 1 {
				initial, err = dateutil.ParseDate(args[0], loc)
				if err != nil {
					return fmt.Errorf("invalid date: %w", err)
				}
			}

			if weekStart != "" {
				cfg.Calendar.WeekStart = weekStart
			}
			if _, err := calendar.ParseWeekStart(cfg.Calendar.WeekStart); err != nil {
				return err
			}
			if week {
				cfg.Calendar.DisplayMode = "week"
			}
			if noSelect {
				cfg.Calendar.AutoSelectToday = false
			}

			ctrl, err := newController(cfg, initial)
			if err != nil {
				return err
			}

			if cfg.Holidays.Enabled && !noHolidays {
				if err := applyHolidays(cmd.Context(), ctrl); err != nil {
					logger.Warn("Holidays unavailable", zap.Error(err))
				}
			}

			if err := render.Text(os.Stdout, ctrl); err != nil {
				return err
			}
			fmt.Println(render.Legend)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&week, "week", "w", false, "Show the week instead of the month")
	cmd.Flags().StringVar(&weekStart, "week-start", "", "First weekday: system, sunday or monday")
	cmd.Flags().BoolVar(&noSelect, "no-select", false, "Do not select DATE (month view only)")
	cmd.Flags().BoolVar(&noHolidays, "no-holidays", false, "Skip holiday lookup")

	return cmd
}

func applyHolidays(ctx context.Context, ctrl *calendar.Controller) error {
	lookup, store, err := newLookup(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	byYear, err := fetchYears(ctx, lookup, holidayRegion(cfg), ctrl.Calendar().Location, visibleYears(ctrl))

	var all []time.Time
	for _, dates := range byYear {
		all = append(all, dates...)
	}
	ctrl.SetHolidays(all)
	return err
}

func holidaysCmd() *cobra.Command {
	var cachedOnly bool

	cmd := &cobra.Command{
		Use:   "holidays [YEAR...]",
		Short: "List public holidays for one or more years",
		Long:  "Fetch (and cache) public holidays for each YEAR (default: current year) in the configured region.",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := cfg.Calendar.GetLocation()
			if err != nil {
				return err
			}

			years := make([]int, 0, len(args))
			for _, a := range args {
				y, err := strconv.Atoi(a)
				if err != nil || y < 1 || y > 9999 {
					return fmt.Errorf("invalid year %q", a)
				}
				years = append(years, y)
			}
			if len(years) == 0 {
				years = append(years, dateutil.Today(loc).Year())
			}

			lookup, store, err := newLookup(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			region := holidayRegion(cfg)

			var byYear map[int][]time.Time
			if cachedOnly {
				byYear = make(map[int][]time.Time, len(years))
				for _, y := range years {
					dates, err := lookup.Cached(holiday.Query{Year: y, Region: region, Location: loc})
					if err != nil {
						logger.Warn("No cached holidays", zap.Int("year", y), zap.Error(err))
						continue
					}
					byYear[y] = dates
				}
			} else {
				ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
				defer cancel()
				byYear, err = fetchYears(ctx, lookup, region, loc, years)
				if err != nil && len(byYear) == 0 {
					return err
				}
				if err != nil {
					logger.Warn("Some years failed", zap.Error(err))
				}
			}

			sort.Ints(years)
			for _, y := range years {
				dates, ok := byYear[y]
				if !ok {
					fmt.Printf("%d %s: unavailable\n", y, region)
					continue
				}
				sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
				fmt.Printf("%d %s: %d holiday(s)\n", y, region, len(dates))
				for _, d := range dates {
					fmt.Printf("  %s %s\n", dateutil.FormatISODate(d), d.Weekday().String()[:3])
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cachedOnly, "cached", false, "Only read the local cache")

	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Interactive calendar session",
		Long:  "Read navigation commands from stdin and redraw the grid after each one. Type h for help.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController(cfg, time.Time{})
			if err != nil {
				return err
			}

			opts := session.Options{
				Controller:    ctrl,
				Region:        holidayRegion(cfg),
				Input:         os.Stdin,
				Output:        os.Stdout,
				HandleSignals: true,
				Logger:        logger,
			}
			if cfg.Holidays.Enabled {
				lookup, store, err := newLookup(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				opts.Lookup = lookup
				opts.Refresh = cfg.Holidays.Refresh
			}

			fmt.Println("h for help, q to quit")
			return session.New(opts).Run(cmd.Context())
		},
	}

	return cmd
}
