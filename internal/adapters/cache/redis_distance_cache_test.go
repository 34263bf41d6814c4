package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"proximity-analysis-service/internal/domain"
)

func newTestCache(t *testing.T) *RedisDistanceCache {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisDistanceCache(client, time.Hour)
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	origin := domain.Location{Lat: -23.5505, Lon: -46.6333}
	destination := domain.Location{Lat: -22.9068, Lon: -43.1729}

	if _, ok, err := c.Get(ctx, origin, destination); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, origin, destination, 361.27); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	km, ok, err := c.Get(ctx, origin, destination)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after put")
	}
	if km != 361.27 {
		t.Errorf("expected 361.27, got %v", km)
	}
}

func TestRedisDistanceCacheIsDirectional(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	a := domain.Location{Lat: 1, Lon: 2}
	b := domain.Location{Lat: 3, Lon: 4}

	if err := c.Put(ctx, a, b, 10.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A routed distance is not symmetric in general; the reverse pair must
	// miss rather than reuse the forward value.
	if _, ok, err := c.Get(ctx, b, a); err != nil || ok {
		t.Fatalf("expected miss for reversed pair, got ok=%v err=%v", ok, err)
	}
}

func TestRedisDistanceCacheNilClient(t *testing.T) {
	c := NewRedisDistanceCache(nil, time.Hour)

	if _, _, err := c.Get(context.Background(), domain.Location{}, domain.Location{}); err == nil {
		t.Fatal("expected error for nil client")
	}
	if err := c.Put(context.Background(), domain.Location{}, domain.Location{}, 1); err == nil {
		t.Fatal("expected error for nil client")
	}
}
