package memory

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"itoffers/common/cache"
)

// Cache is a size-bounded in-process cache. Entries share one TTL, the
// DefaultTTL it was built with; per-call TTLs are ignored.
type Cache struct {
	lru    *expirable.LRU[string, []byte]
	closed atomic.Bool
}

func New(opts cache.Options) *Cache {
	size := opts.MaxEntries
	if size <= 0 {
		size = cache.DefaultOptions().MaxEntries
	}
	return &Cache{lru: expirable.NewLRU[string, []byte](size, nil, opts.DefaultTTL)}
}

func (c *Cache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.closed.Load() {
		return cache.ErrClosed
	}
	if err := cache.ValidateKey(key); err != nil {
		return err
	}
	c.lru.Add(key, append([]byte(nil), value...))
	return nil
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, cache.ErrClosed
	}
	value, ok := c.lru.Get(key)
	if !ok {
		return nil, cache.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return cache.ErrClosed
	}
	c.lru.Remove(key)
	return nil
}

func (c *Cache) Clear(context.Context) error {
	if c.closed.Load() {
		return cache.ErrClosed
	}
	c.lru.Purge()
	return nil
}

func (c *Cache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.lru.Purge()
	return nil
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
