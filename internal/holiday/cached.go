package holiday

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/username/calgrid/internal/kv"
	"github.com/username/calgrid/pkg/dateutil"
)

// CachedLookup implements Lookup over a Source and a persisted store.
// Cached entries never expire; every Fetch refreshes them opportunistically.
type CachedLookup struct {
	source Source
	store  kv.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewCachedLookup creates a lookup that persists source results in store
func NewCachedLookup(source Source, store kv.Store, logger *zap.Logger) *CachedLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLookup{
		source: source,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Fetch starts a lookup and returns its delivery channel
func (l *CachedLookup) Fetch(ctx context.Context, q Query) <-chan Result {
	q.Region = strings.ToUpper(q.Region)
	if q.Location == nil {
		q.Location = time.Local
	}

	out := make(chan Result, 2)
	go func() {
		defer close(out)
		l.fetch(ctx, q, out)
	}()
	return out
}

func (l *CachedLookup) fetch(ctx context.Context, q Query, out chan<- Result) {
	cached, err := l.Cached(q)
	hasCache := err == nil
	switch {
	case hasCache:
		l.logger.Debug("Using cached holidays",
			zap.String("key", CacheKey(q.Year, q.Region)),
			zap.Int("count", len(cached)))
		out <- Result{Query: q, Dates: cached, FromCache: true}
	case errors.Is(err, kv.ErrNotFound), errors.Is(err, ErrNoData):
	default:
		l.logger.Warn("Failed to read holiday cache",
			zap.String("key", CacheKey(q.Year, q.Region)),
			zap.Error(err))
	}

	holidays, err := l.source.Holidays(ctx, q.Year, q.Region)
	if err != nil {
		l.logger.Warn("Failed to fetch holidays",
			zap.Int("year", q.Year),
			zap.String("region", q.Region),
			zap.Bool("have_cache", hasCache),
			zap.Error(err))
		if !hasCache {
			out <- Result{Query: q, Err: err}
		}
		return
	}

	raw := make([]string, 0, len(holidays))
	for _, h := range holidays {
		raw = append(raw, h.Date)
	}
	if err := savePayload(l.store, q.Year, q.Region, raw, l.now()); err != nil {
		l.logger.Warn("Failed to save holiday cache",
			zap.String("key", CacheKey(q.Year, q.Region)),
			zap.Error(err))
	}

	dates := l.parseDates(raw, q.Location)
	l.logger.Info("Holidays fetched",
		zap.Int("year", q.Year),
		zap.String("region", q.Region),
		zap.Int("count", len(dates)))

	out <- Result{Query: q, Dates: dates}
}

// Cached returns the persisted holidays of q without touching the source
func (l *CachedLookup) Cached(q Query) ([]time.Time, error) {
	if q.Location == nil {
		q.Location = time.Local
	}
	payload, err := loadPayload(l.store, q.Year, q.Region)
	if err != nil {
		return nil, err
	}
	dates := l.parseDates(payload.Dates, q.Location)
	if len(dates) == 0 {
		return nil, ErrNoData
	}
	return dates, nil
}

func (l *CachedLookup) parseDates(raw []string, loc *time.Location) []time.Time {
	dates := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := time.ParseInLocation(dateutil.ISODate, s, loc)
		if err != nil {
			l.logger.Warn("Skipping malformed holiday date",
				zap.String("date", s),
				zap.Error(err))
			continue
		}
		dates = append(dates, d)
	}
	return dates
}
