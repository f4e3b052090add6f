package redisconn

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Open bootstraps a redis client from a URL and verifies connectivity.
func Open(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}

	return client, nil
}
