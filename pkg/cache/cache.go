// Package cache is a Redis read-through cache for reference data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "unihub:"

type Config struct {
	// Addr is host:port. An empty Addr disables caching.
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis. It returns (nil, nil) when caching is disabled;
// a nil *Cache is valid and always misses.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Get decodes the cached value into dst and reports whether it was present.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}
	b, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, v any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remember returns the cached value for key, or calls load and caches
// its result. Cache failures are logged and fall through to load.
func Remember[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	if ok, err := c.Get(ctx, key, &v); err != nil {
		zap.L().Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v); err != nil {
		zap.L().Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}
