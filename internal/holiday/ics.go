package holiday

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/username/calgrid/pkg/dateutil"
)

const (
	icsDateLayout     = "20060102"
	icsDateTimeLayout = "20060102T150405"
	icsUTCLayout      = "20060102T150405Z"
)

// ICSSource reads holidays from an iCalendar feed. The location may be an
// http(s) URL or a local path and may contain {year} and {region}.
type ICSSource struct {
	template   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewICSSource creates an ICSSource for the given location template
func NewICSSource(template string, logger *zap.Logger) *ICSSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ICSSource{
		template: template,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger: logger,
	}
}

// Holidays implements Source
func (s *ICSSource) Holidays(ctx context.Context, year int, region string) ([]Holiday, error) {
	location := expandTemplate(s.template, year, region)

	body, err := s.read(ctx, location)
	if err != nil {
		return nil, err
	}

	holidays, err := ParseICSHolidays(body, year, s.logger)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("ICS holidays parsed",
		zap.String("location", location),
		zap.Int("year", year),
		zap.Int("count", len(holidays)))

	return holidays, nil
}

func (s *ICSSource) read(ctx context.Context, location string) ([]byte, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		body, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read ICS file: %w", err)
		}
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ICS feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ICS feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ICS feed: %w", err)
	}
	return body, nil
}

func expandTemplate(template string, year int, region string) string {
	r := strings.NewReplacer(
		"{year}", strconv.Itoa(year),
		"{region}", strings.ToUpper(region),
		"{region_lower}", strings.ToLower(region),
	)
	return r.Replace(template)
}

// ParseICSHolidays returns the distinct civil dates in year covered by the
// events of an iCalendar payload. Recurring events are expanded and their
// EXDATEs removed; multi-day all-day events contribute every day they span.
func ParseICSHolidays(body []byte, year int, logger *zap.Logger) ([]Holiday, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrNoData
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ICS: %w", err)
	}

	names := make(map[string]string)
	for _, ve := range cal.Events() {
		dates, err := eventDates(ve, year)
		if err != nil {
			logger.Warn("Skipping ICS event",
				zap.String("uid", propertyValue(ve, ical.ComponentPropertyUniqueId)),
				zap.Error(err))
			continue
		}
		summary := propertyValue(ve, ical.ComponentPropertySummary)
		for _, d := range dates {
			if _, ok := names[d]; !ok {
				names[d] = summary
			}
		}
	}

	holidays := make([]Holiday, 0, len(names))
	for d, name := range names {
		holidays = append(holidays, Holiday{Date: d, Name: name})
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date < holidays[j].Date
	})
	return holidays, nil
}

// eventDates lists the ISO dates of year covered by one VEVENT
func eventDates(ve *ical.VEvent, year int) ([]string, error) {
	start, allDay, err := eventStart(ve)
	if err != nil {
		return nil, err
	}
	loc := start.Location()

	span := 1
	if allDay {
		if end, ok := allDayEnd(ve); ok {
			if n := dateutil.DaysBetween(start, end); n > 1 {
				span = n
			}
		}
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	yearEnd := time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc)

	occurrences := []time.Time{start}
	if raw := propertyValue(ve, ical.ComponentPropertyRrule); raw != "" {
		r, err := rrule.StrToRRule(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RRULE %q: %w", raw, err)
		}
		r.DTStart(start)

		var set rrule.Set
		set.RRule(r)
		for _, ex := range exDates(ve, loc, allDay) {
			set.ExDate(ex)
		}

		// occurrences starting shortly before the year may still span into it
		from := dateutil.AddDays(yearStart, 1-span)
		occurrences = set.Between(from, yearEnd, true)
	}

	var dates []string
	for _, occ := range occurrences {
		day := time.Date(occ.Year(), occ.Month(), occ.Day(), 0, 0, 0, 0, loc)
		for i := 0; i < span; i++ {
			d := dateutil.AddDays(day, i)
			if d.Year() == year {
				dates = append(dates, d.Format(dateutil.ISODate))
			}
		}
	}
	return dates, nil
}

func eventStart(ve *ical.VEvent) (time.Time, bool, error) {
	prop := ve.GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil || prop.Value == "" {
		return time.Time{}, false, errors.New("missing DTSTART")
	}

	if isDateValue(prop) {
		t, err := time.ParseInLocation(icsDateLayout, strings.TrimSpace(prop.Value), time.UTC)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid DTSTART %q: %w", prop.Value, err)
		}
		return t, true, nil
	}

	t, err := ve.GetStartAt()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid DTSTART %q: %w", prop.Value, err)
	}
	return t, false, nil
}

func allDayEnd(ve *ical.VEvent) (time.Time, bool) {
	prop := ve.GetProperty(ical.ComponentPropertyDtEnd)
	if prop == nil || !isDateValue(prop) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(icsDateLayout, strings.TrimSpace(prop.Value), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isDateValue(prop *ical.IANAProperty) bool {
	if vs, ok := prop.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(prop.Value, "T")
}

func exDates(ve *ical.VEvent, loc *time.Location, allDay bool) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			t, err := parseICSTime(strings.TrimSpace(part), loc)
			if err != nil {
				continue
			}
			if allDay {
				t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
			}
			out = append(out, t)
		}
	}
	return out
}

func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse(icsUTCLayout, v)
		return t.In(loc), err
	case strings.Contains(v, "T"):
		return time.ParseInLocation(icsDateTimeLayout, v, loc)
	default:
		return time.ParseInLocation(icsDateLayout, v, loc)
	}
}

func propertyValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}
