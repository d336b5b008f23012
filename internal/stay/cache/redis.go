package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sojourn/internal/stay/models"
)

const defaultRedisPrefix = "sojourn:status:"

// RedisCache shares results between replicas as JSON values with a TTL.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

// RedisOption customises a RedisCache.
type RedisOption func(*RedisCache)

// WithKeyPrefix replaces the default key namespace.
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// NewRedis wraps client. ttl must be positive; entries are never stored
// without expiry.
func NewRedis(client redis.Cmdable, ttl time.Duration, opts ...RedisOption) (*RedisCache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("redis cache ttl must be positive, got %s", ttl)
	}
	c := &RedisCache{client: client, ttl: ttl, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *RedisCache) Get(ctx context.Context, key Key) (*models.CountryResult, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var result models.CountryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}
	return &result, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key Key, result *models.CountryResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode cached result: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key.String(), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
