// Package cache provides a Redis-backed cache for rendered problem
// payloads. The dataset itself lives in memory; the cache only spares
// repeated JSON rendering of hot problem detail responses.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with problem-payload helpers.
type Cache struct {
	Client *redis.Client
	ttl    time.Duration
}

// ParseURL validates a Redis connection URL.
func ParseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	return opts, nil
}

// Connect creates a cache client and verifies it with a ping.
func Connect(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	opts, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	return &Cache{Client: client, ttl: ttl}, nil
}

// Close shuts down the cache client.
func (c *Cache) Close() error {
	return c.Client.Close()
}

// HealthCheck verifies the cache connection is alive.
func (c *Cache) HealthCheck(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func problemKey(slug string) string {
	return "problem:" + slug
}

// GetProblem returns the cached payload for a problem slug, or ok=false
// on a miss.
func (c *Cache) GetProblem(ctx context.Context, slug string) ([]byte, bool, error) {
	data, err := c.Client.Get(ctx, problemKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", slug, err)
	}
	return data, true, nil
}

// SetProblem stores a rendered problem payload under the configured TTL.
func (c *Cache) SetProblem(ctx context.Context, slug string, payload []byte) error {
	if err := c.Client.Set(ctx, problemKey(slug), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", slug, err)
	}
	return nil
}
