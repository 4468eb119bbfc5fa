// Package cache provides a Redis-backed result cache so repeated profile
// submissions do not hammer the upstream search engine. Cache failures are
// invisible to callers: a broken Redis just means every lookup misses.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"learnpath/internal/domain"
	"learnpath/internal/ports"
)

const keyPrefix = "learnpath:search:"

// Config holds cache connection settings. An empty Addr disables caching.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// DefaultConfig disables the cache; an operator opts in by setting an address.
func DefaultConfig() Config {
	return Config{TTL: 15 * time.Minute}
}

// RedisCache implements ports.ResultCache on go-redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ ports.ResultCache = (*RedisCache)(nil)

// New connects to Redis. Returns nil when no address is configured, which the
// use case layer treats as caching disabled.
func New(cfg Config, logger *zap.Logger) *RedisCache {
	if cfg.Addr == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get returns cached results for the key, or ok=false on miss or any backend
// error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]domain.ContentResult, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var results []domain.ContentResult
	if err := json.Unmarshal(raw, &results); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, keyPrefix+key).Err()
		return nil, false
	}
	return results, true
}

// Set stores results under the key with the configured TTL. Errors are logged
// and swallowed.
func (c *RedisCache) Set(ctx context.Context, key string, results []domain.ContentResult) {
	raw, err := json.Marshal(results)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping verifies connectivity, used by the health endpoint.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
