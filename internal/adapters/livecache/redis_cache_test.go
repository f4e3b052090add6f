package livecache

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisLiveCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLiveCache(client, time.Minute), mr
}

func TestLiveCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	snap := ports.LiveSnapshot{
		OrderID:  "ord-1",
		Status:   domain.StatusInTransit,
		Progress: 42,
		Location: &domain.Location{Lat: 28.60, Lng: 77.35},
		ETA:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := cache.Put(ctx, snap); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := cache.Get(ctx, "ord-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Progress != 42 || got.Status != domain.StatusInTransit {
		t.Fatalf("snapshot mismatch: %+v", got)
	}
	if got.Location == nil || got.Location.Lat != 28.60 {
		t.Fatalf("location lost: %+v", got.Location)
	}
	if !got.ETA.Equal(snap.ETA) {
		t.Fatalf("eta = %v, want %v", got.ETA, snap.ETA)
	}
}

func TestLiveCacheMissIsNotFound(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "nope")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestLiveCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if err := cache.Put(ctx, ports.LiveSnapshot{OrderID: "ord-1", Progress: 10}); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "ord-1")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound after ttl", err)
	}
}

func TestLiveCacheDelete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.Put(ctx, ports.LiveSnapshot{OrderID: "ord-1", Progress: 10}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := cache.Delete(ctx, "ord-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := cache.Get(ctx, "ord-1")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound after delete", err)
	}
}
