package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/maypok86/otter"

	"sojourn/internal/stay/models"
)

// OtterCache is a bounded in-process cache. Cached results are shared between
// callers and must be treated as read-only.
type OtterCache struct {
	cache otter.Cache[string, *models.CountryResult]
}

// NewOtter builds a cache holding at most capacity results. A positive ttl
// expires entries after they are written.
func NewOtter(capacity int, ttl time.Duration) (*OtterCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("otter cache capacity must be positive, got %d", capacity)
	}
	builder := otter.MustBuilder[string, *models.CountryResult](capacity).
		Cost(func(_ string, _ *models.CountryResult) uint32 { return 1 })

	var (
		c   otter.Cache[string, *models.CountryResult]
		err error
	)
	if ttl > 0 {
		c, err = builder.WithTTL(ttl).Build()
	} else {
		c, err = builder.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("build otter cache: %w", err)
	}
	return &OtterCache{cache: c}, nil
}

func (c *OtterCache) Get(_ context.Context, key Key) (*models.CountryResult, bool, error) {
	result, ok := c.cache.Get(key.String())
	return result, ok, nil
}

func (c *OtterCache) Set(_ context.Context, key Key, result *models.CountryResult) error {
	c.cache.Set(key.String(), result)
	return nil
}

// Close stops the cache's background maintenance.
func (c *OtterCache) Close() {
	c.cache.Close()
}
