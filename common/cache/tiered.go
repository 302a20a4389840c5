package cache

import (
	"context"
	"errors"
	"time"
)

// Tiered checks its caches in order. A hit in a later tier is copied into
// the earlier ones; writes and deletes go to every tier.
type Tiered struct {
	tiers []Cache
	ttl   time.Duration
}

func NewTiered(ttl time.Duration, tiers ...Cache) *Tiered {
	return &Tiered{tiers: tiers, ttl: ttl}
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var errs []error
	for _, c := range t.tiers {
		errs = append(errs, c.Set(ctx, key, value, ttl))
	}
	return errors.Join(errs...)
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, error) {
	var errs []error
	for i, c := range t.tiers {
		value, err := c.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, earlier := range t.tiers[:i] {
			_ = earlier.Set(ctx, key, value, t.ttl)
		}
		return value, nil
	}
	if len(errs) > 0 {
		return nil, errors.Join(append(errs, ErrNotFound)...)
	}
	return nil, ErrNotFound
}

func (t *Tiered) Delete(ctx context.Context, key string) error {
	var errs []error
	for _, c := range t.tiers {
		errs = append(errs, c.Delete(ctx, key))
	}
	return errors.Join(errs...)
}

func (t *Tiered) Clear(ctx context.Context) error {
	var errs []error
	for _, c := range t.tiers {
		errs = append(errs, c.Clear(ctx))
	}
	return errors.Join(errs...)
}

func (t *Tiered) Close() error {
	var errs []error
	for _, c := range t.tiers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
