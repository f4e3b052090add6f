package livecache

import (
	"context"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dts:live:"

// RedisLiveCache stores the live tracking snapshot for each in-flight order
// under a TTL so polling clients read it without touching the primary store.
type RedisLiveCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLiveCache(client *redis.Client, ttl time.Duration) *RedisLiveCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLiveCache{client: client, ttl: ttl}
}

func snapshotKey(orderID string) string { return keyPrefix + orderID }

func (c *RedisLiveCache) Put(ctx context.Context, snap ports.LiveSnapshot) error {
	if snap.OrderID == "" {
		return errors.New("live cache: snapshot order id is empty")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("live cache: encode snapshot: %w", err)
	}

	if err := c.client.Set(ctx, snapshotKey(snap.OrderID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("live cache: set %q: %w", snap.OrderID, err)
	}
	return nil
}

func (c *RedisLiveCache) Get(ctx context.Context, orderID string) (ports.LiveSnapshot, error) {
	raw, err := c.client.Get(ctx, snapshotKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.LiveSnapshot{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.LiveSnapshot{}, fmt.Errorf("live cache: get %q: %w", orderID, err)
	}

	var snap ports.LiveSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return ports.LiveSnapshot{}, fmt.Errorf("live cache: decode snapshot %q: %w", orderID, err)
	}
	return snap, nil
}

func (c *RedisLiveCache) Delete(ctx context.Context, orderID string) error {
	if err := c.client.Del(ctx, snapshotKey(orderID)).Err(); err != nil {
		return fmt.Errorf("live cache: delete %q: %w", orderID, err)
	}
	return nil
}
