// Package rediscache is a Redis-backed TTL cache shared between bot
// instances. Values are stored as JSON.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type Cache[V any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

func New[V any](client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *Cache[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache[V]{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

// Get treats every failure as a miss; a broken cache must not break lookups.
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	var value V

	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", zap.String("key", c.key(key)), zap.Error(err))
		}
		return value, false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		c.logger.Warn("corrupt cache entry", zap.String("key", c.key(key)), zap.Error(err))
		var zero V
		return zero, false
	}
	return value, true
}

func (c *Cache[V]) Set(ctx context.Context, key string, value V) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("marshal cache value", zap.String("key", c.key(key)), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, c.key(key), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.String("key", c.key(key)), zap.Error(err))
	}
}

func (c *Cache[V]) key(key string) string {
	return c.prefix + key
}
