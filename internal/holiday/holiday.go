// Package holiday looks up public holidays for a year and region, serving a
// persisted cached copy first and a fresh copy from a Source after it.
package holiday

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultRegion is used when neither configuration nor locale names a region
const DefaultRegion = "KR"

// ErrNoData is returned when a source answers without any holiday payload
var ErrNoData = errors.New("holiday: no data")

// Holiday is a single civil date as reported by a source
type Holiday struct {
	Date string // YYYY-MM-DD
	Name string
}

// Source fetches the holidays of one year and region
type Source interface {
	Holidays(ctx context.Context, year int, region string) ([]Holiday, error)
}

// Query identifies a lookup. Dates are delivered at midnight in Location.
type Query struct {
	Year     int
	Region   string
	Location *time.Location
}

// Result is one delivery of a lookup
type Result struct {
	Query     Query
	Dates     []time.Time
	FromCache bool
	Err       error
}

// Lookup delivers at most two results per Fetch, a cached one followed by a
// fresh one, and closes the channel afterwards. A failure with nothing cached
// is delivered as a single Result with Err set.
type Lookup interface {
	Fetch(ctx context.Context, q Query) <-chan Result
}

// ResolveRegion returns the first non-empty candidate upper-cased, or
// DefaultRegion.
func ResolveRegion(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return strings.ToUpper(c)
		}
	}
	return DefaultRegion
}
