package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itoffers/common/cache"
)

// Runs against a real server when REDIS_TEST_ADDR is set.
func TestCache_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	c := New(cache.Options{RedisURL: addr, KeyPrefix: "itoffers-test:", DefaultTTL: time.Minute})
	defer c.Close()
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Clear(ctx))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestCache_Key(t *testing.T) {
	c := New(cache.Options{RedisURL: "127.0.0.1:0", KeyPrefix: "p:"})
	defer c.Close()
	assert.Equal(t, "p:summary", c.key("summary"))
	assert.Equal(t, cache.DefaultOptions().DefaultTTL, c.ttl)
	assert.ErrorIs(t, c.Set(context.Background(), "", nil, 0), cache.ErrInvalidKey)
}
