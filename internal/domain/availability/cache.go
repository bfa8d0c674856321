package availability

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	snapshotKeyPrefix  = "blocked-dates:"
	DefaultSnapshotTTL = 60 * time.Second
)

// SnapshotCache holds point-in-time blocked-range lists per vehicle.
// A cached list is a calendar hint only.
type SnapshotCache interface {
	Get(ctx context.Context, vehicleID string) ([]BlockedDateRange, bool, error)
	Set(ctx context.Context, vehicleID string, ranges []BlockedDateRange) error
}

// RedisSnapshotCache stores snapshots as JSON with a short TTL.
type RedisSnapshotCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewSnapshotCache returns a redis-backed cache, or a no-op cache when client is nil.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) SnapshotCache {
	if client == nil {
		return noopCache{}
	}
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &RedisSnapshotCache{redis: client, ttl: ttl}
}

func (c *RedisSnapshotCache) Get(ctx context.Context, vehicleID string) ([]BlockedDateRange, bool, error) {
	raw, err := c.redis.Get(ctx, snapshotKeyPrefix+vehicleID).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var ranges []BlockedDateRange
	if err := json.Unmarshal(raw, &ranges); err != nil {
		return nil, false, err
	}
	return ranges, true, nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, vehicleID string, ranges []BlockedDateRange) error {
	raw, err := json.Marshal(ranges)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, snapshotKeyPrefix+vehicleID, raw, c.ttl).Err()
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]BlockedDateRange, bool, error) {
	return nil, false, nil
}

func (noopCache) Set(context.Context, string, []BlockedDateRange) error {
	return nil
}
