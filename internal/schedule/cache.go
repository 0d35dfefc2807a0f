package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// CachedBusySource decorates a BusySource with a short-TTL Redis
// cache. It serves the bulk availability endpoint (Layer 1), which is
// stale-tolerant by design; the pre-payment guard and the booking
// reconciler must query the inner source directly.
type CachedBusySource struct {
	inner  BusySource
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedBusySource wraps source with a Redis cache. Cache failures
// are never surfaced: a broken Redis degrades to pass-through.
func NewCachedBusySource(source BusySource, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedBusySource {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &CachedBusySource{inner: source, client: client, ttl: ttl, logger: logger}
}

// BusyIntervals returns cached busy intervals for the window when
// fresh, otherwise queries the inner source and caches the result.
func (c *CachedBusySource) BusyIntervals(ctx context.Context, window TimeInterval) ([]TimeInterval, error) {
	key := c.key(window)

	if payload, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached []TimeInterval
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry: drop it and fall through to the source.
		c.client.Del(ctx, key)
	}

	busy, err := c.inner.BusyIntervals(ctx, window)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(busy); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("busy-interval cache write failed", "error", err, "key", key)
		}
	}
	return busy, nil
}

func (c *CachedBusySource) key(window TimeInterval) string {
	return fmt.Sprintf("busy:%d:%d", window.Start.Unix(), window.End.Unix())
}

var _ BusySource = (*CachedBusySource)(nil)
