package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"proximity-analysis-service/internal/domain"
)

// Redis-backed cache for resolved origin->destination distances. Routed
// distances are expensive (external API quota, latency), while coordinates
// of reference data rarely change, so entries live for a long TTL rather
// than forever.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisDistanceCache{client: client, ttl: ttl}
}

// key builds a stable cache key from both coordinate pairs. Six decimal
// places (~0.1m) is beyond the precision of the reference data.
func key(origin, destination domain.Location) string {
	return fmt.Sprintf("dist:%.6f,%.6f|%.6f,%.6f",
		origin.Lat, origin.Lon, destination.Lat, destination.Lon)
}

// Get returns a cached distance in km, with ok=false on a miss.
func (c *RedisDistanceCache) Get(ctx context.Context, origin, destination domain.Location) (float64, bool, error) {
	if c.client == nil {
		return 0, false, errors.New("distance cache: client is nil")
	}

	v, err := c.client.Get(ctx, key(origin, destination)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache: %w", err)
	}

	km, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache: parse %q: %w", v, err)
	}

	return km, true, nil
}

// Put stores a resolved distance with the configured TTL.
func (c *RedisDistanceCache) Put(ctx context.Context, origin, destination domain.Location, km float64) error {
	if c.client == nil {
		return errors.New("distance cache: client is nil")
	}

	v := strconv.FormatFloat(km, 'f', -1, 64)
	if err := c.client.Set(ctx, key(origin, destination), v, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert distance cache: %w", err)
	}

	return nil
}
