package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultExpiration = 5 * time.Minute
	CleanupInterval   = 10 * time.Minute
)

// Cache is a simple process-local cache used for hot lookups such as
// membership checks on every request
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Get(ctx context.Context, key string) (interface{}, bool)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
}

type inMemoryCache struct {
	cache *gocache.Cache
}

// NewInMemoryCache creates a cache with the default expiration policy
func NewInMemoryCache() Cache {
	return &inMemoryCache{
		cache: gocache.New(DefaultExpiration, CleanupInterval),
	}
}

func (c *inMemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	c.cache.Set(key, value, expiration)
}

func (c *inMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *inMemoryCache) Delete(ctx context.Context, key string) {
	c.cache.Delete(key)
}

func (c *inMemoryCache) DeleteByPrefix(ctx context.Context, prefix string) {
	for key := range c.cache.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.cache.Delete(key)
		}
	}
}
