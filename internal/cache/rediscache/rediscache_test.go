package rediscache

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	b, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), b)
}

func TestRedisCache_Del(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, c.Del(ctx, "a", "b"))
	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	// пустой список ключей — no-op
	require.NoError(t, c.Del(ctx))
}

func TestRedisCache_DelPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())

	ctx := context.Background()
	for i := 0; i < 250; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("ratecard:c1:%d", i), []byte("x"), time.Minute))
	}
	require.NoError(t, c.Set(ctx, "ratecard:c2:0", []byte("x"), time.Minute))
	require.NoError(t, c.Set(ctx, "zone:110001:400001", []byte("x"), time.Minute))

	n, err := c.DelPrefix(ctx, "ratecard:c1:")
	require.NoError(t, err)
	require.Equal(t, 250, n)

	_, ok, err := c.Get(ctx, "ratecard:c2:0")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = c.Get(ctx, "zone:110001:400001")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRateLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := NewRateLimiter(mr.Addr())

	ctx := context.Background()
	ok, n, err := rl.Allow(ctx, "rl:test", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), n)

	ok, n, _ = rl.Allow(ctx, "rl:test", 2, time.Minute)
	require.True(t, ok)
	require.Equal(t, int64(2), n)

	ok, n, _ = rl.Allow(ctx, "rl:test", 2, time.Minute)
	require.False(t, ok)
	require.Equal(t, int64(3), n)
}
