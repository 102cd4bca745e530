package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"exampleapi/internal/config"
)

// redisCache implements Cache on top of a go-redis client.
// It is safe for concurrent use by multiple goroutines.
type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis connects to Redis and verifies connectivity with a short ping.
func NewRedis(cfg config.RedisConfig, prefix string) (Cache, func() error, error) {
	if cfg.Addr == "" {
		return nil, nil, fmt.Errorf("redis addr is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{rdb: rdb, prefix: prefix}, rdb.Close, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return v, err
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.prefix+key, value, ttl).Err()
}
