// Package cache owns the Redis connection shared by readiness probes and the
// reconciliation scheduler.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// New creates a Redis client and verifies it answers PING.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping %s: %w", addr, err)
	}

	return client, nil
}

// Checker adapts a Redis client to the readiness probe interface.
type Checker struct {
	Client redis.UniversalClient
}

// Ping reports whether Redis is reachable.
func (c Checker) Ping(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("platform/cache: client not configured")
	}
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("platform/cache: ping: %w", err)
	}
	return nil
}
