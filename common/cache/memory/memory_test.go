package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itoffers/common/cache"
)

func TestCache(t *testing.T) {
	ctx := context.Background()
	c := New(cache.Options{DefaultTTL: time.Minute, MaxEntries: 2})

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	got[0] = 'x'
	again, _ := c.Get(ctx, "a")
	assert.Equal(t, []byte("1"), again, "callers get copies")

	t.Run("evicts least recently used", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
		require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))
		_, err := c.Get(ctx, "a")
		assert.ErrorIs(t, err, cache.ErrNotFound)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("delete and clear", func(t *testing.T) {
		require.NoError(t, c.Delete(ctx, "b"))
		_, err := c.Get(ctx, "b")
		assert.ErrorIs(t, err, cache.ErrNotFound)

		require.NoError(t, c.Clear(ctx))
		assert.Zero(t, c.Len())
	})

	t.Run("empty key", func(t *testing.T) {
		assert.ErrorIs(t, c.Set(ctx, "", []byte("x"), 0), cache.ErrInvalidKey)
	})

	t.Run("closed", func(t *testing.T) {
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		_, err := c.Get(ctx, "c")
		assert.ErrorIs(t, err, cache.ErrClosed)
		assert.ErrorIs(t, c.Set(ctx, "c", nil, 0), cache.ErrClosed)
	})
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New(cache.Options{DefaultTTL: 20 * time.Millisecond})

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	assert.Eventually(t, func() bool {
		_, err := c.Get(ctx, "a")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}
