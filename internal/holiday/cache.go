package holiday

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/username/calgrid/internal/kv"
)

// cachePayload is the persisted form of one region/year
type cachePayload struct {
	Dates     []string `json:"dates"`
	UpdatedAt float64  `json:"updatedAt"` // unix seconds
}

// CacheKey returns the store key of a region/year: "{REGION}.{year}"
func CacheKey(year int, region string) string {
	return fmt.Sprintf("%s.%d", strings.ToUpper(region), year)
}

func loadPayload(store kv.Store, year int, region string) (*cachePayload, error) {
	data, err := store.Get(CacheKey(year, region))
	if err != nil {
		return nil, err
	}

	var payload cachePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse cached holidays: %w", err)
	}
	if len(payload.Dates) == 0 {
		return nil, ErrNoData
	}
	return &payload, nil
}

func savePayload(store kv.Store, year int, region string, dates []string, now time.Time) error {
	payload := cachePayload{
		Dates:     dates,
		UpdatedAt: float64(now.UnixNano()) / float64(time.Second),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal holidays: %w", err)
	}
	return store.Put(CacheKey(year, region), data)
}
