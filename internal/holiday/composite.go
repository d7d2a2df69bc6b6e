package holiday

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a CompositeSource. A nil fallback makes it a
// pass-through to primary.
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Holidays implements Source
func (cs *CompositeSource) Holidays(ctx context.Context, year int, region string) ([]Holiday, error) {
	holidays, err := cs.primary.Holidays(ctx, year, region)
	if err == nil || cs.fallback == nil {
		return holidays, err
	}
	if ctx.Err() != nil {
		return nil, err
	}

	cs.logger.Warn("Primary holiday source failed, falling back",
		zap.Int("year", year),
		zap.String("region", region),
		zap.Error(err))

	holidays, fallbackErr := cs.fallback.Holidays(ctx, year, region)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return holidays, nil
}
