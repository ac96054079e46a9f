package statscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
)

const keyPrefix = "kasuwa:stats"

// Cache is a Redis-backed read-through cache for order statistics. Entries
// are stored as JSON under a TTL; a miss reads as (nil, nil).
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis at addr. The TTL bounds staleness of served stats.
func New(addr string, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached stats for key, or (nil, nil) when absent.
func (c *Cache) Get(ctx context.Context, key string) (*model.OrderStats, error) {
	raw, err := c.client.Get(ctx, fullKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats model.OrderStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		c.logger.Warn("discarding malformed stats cache entry", slog.String("key", key))
		return nil, nil
	}
	return &stats, nil
}

// Set stores the stats under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, stats *model.OrderStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fullKey(key), payload, c.ttl).Err()
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func fullKey(key string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, key)
}
