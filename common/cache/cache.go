package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("key not found in cache")
	ErrClosed     = errors.New("cache is closed")
	ErrInvalidKey = errors.New("invalid cache key")
)

// Cache stores encoded payloads by key. A zero ttl means the cache's default.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Get(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error

	Clear(ctx context.Context) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	MaxEntries int

	KeyPrefix string

	RedisURL string

	RedisPassword string

	RedisDB int
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL: time.Hour,
		MaxEntries: 512,
		KeyPrefix:  "itoffers:",
	}
}

func ValidateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
