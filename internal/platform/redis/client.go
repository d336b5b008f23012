package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"sojourn/internal/platform/config"
)

// Client is a connected Redis handle scoped to one key namespace. Callers
// build keys with Key and store values for TTL unless they know better.
type Client struct {
	*redis.Client
	prefix string
	ttl    time.Duration
}

// Open connects using cfg and pings once. It returns nil, nil when no URL is
// configured.
func Open(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client, prefix: cfg.KeyPrefix, ttl: cfg.TTL}, nil
}

func options(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("redis ttl must be positive, got %s", cfg.TTL)
	}
	if strings.TrimSpace(cfg.KeyPrefix) == "" {
		return nil, errors.New("redis key prefix is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

// Key joins parts under the client's namespace, e.g. "sojourn:status".
func (c *Client) Key(parts ...string) string {
	return strings.Join(append([]string{c.prefix}, parts...), ":")
}

// TTL is the default expiry for values written through this client.
func (c *Client) TTL() time.Duration {
	return c.ttl
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
