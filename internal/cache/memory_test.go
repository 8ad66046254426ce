package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMemory(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := setupMemory(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryCache_MissAndExpiry(t *testing.T) {
	c := setupMemory(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "absent")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := setupMemory(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_GetOrSet(t *testing.T) {
	c := setupMemory(t)
	ctx := context.Background()

	calls := 0
	fill := func() ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrSet(ctx, "k", time.Minute, fill)
		require.NoError(t, err)
		assert.Equal(t, []byte("computed"), got)
	}
	assert.Equal(t, 1, calls)

	_, err := c.GetOrSet(ctx, "fail", time.Minute, func() ([]byte, error) {
		return nil, errors.New("upstream down")
	})
	require.Error(t, err)
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	c := setupMemory(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("abc"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'x'

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
