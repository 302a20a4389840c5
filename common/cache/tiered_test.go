package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itoffers/common/cache"
	"itoffers/common/cache/memory"
)

type brokenCache struct{}

var errDown = errors.New("down")

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error { return errDown }
func (brokenCache) Get(context.Context, string) ([]byte, error)              { return nil, errDown }
func (brokenCache) Delete(context.Context, string) error                     { return errDown }
func (brokenCache) Clear(context.Context) error                              { return errDown }
func (brokenCache) Close() error                                             { return nil }

func TestTiered(t *testing.T) {
	ctx := context.Background()
	opts := cache.Options{DefaultTTL: time.Minute, MaxEntries: 10}

	t.Run("later hit fills earlier tiers", func(t *testing.T) {
		near, far := memory.New(opts), memory.New(opts)
		tiered := cache.NewTiered(time.Minute, near, far)

		require.NoError(t, far.Set(ctx, "k", []byte("v"), 0))
		got, err := tiered.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		got, err = near.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("writes reach every tier", func(t *testing.T) {
		near, far := memory.New(opts), memory.New(opts)
		tiered := cache.NewTiered(time.Minute, near, far)

		require.NoError(t, tiered.Set(ctx, "k", []byte("v"), 0))
		_, err := far.Get(ctx, "k")
		require.NoError(t, err)

		require.NoError(t, tiered.Delete(ctx, "k"))
		_, err = near.Get(ctx, "k")
		assert.ErrorIs(t, err, cache.ErrNotFound)
		_, err = tiered.Get(ctx, "k")
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("failing tier does not hide a hit", func(t *testing.T) {
		far := memory.New(opts)
		tiered := cache.NewTiered(time.Minute, brokenCache{}, far)

		require.NoError(t, far.Set(ctx, "k", []byte("v"), 0))
		got, err := tiered.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		_, err = tiered.Get(ctx, "missing")
		assert.ErrorIs(t, err, cache.ErrNotFound)
		assert.ErrorIs(t, err, errDown)
		assert.ErrorIs(t, tiered.Clear(ctx), errDown)
		assert.NoError(t, tiered.Close())
	})
}
