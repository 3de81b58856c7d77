package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewClientFromRedis(rdb), mr
}

func TestStatisticsCacheReadThrough(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewStatisticsCache(client, time.Minute)
	ctx := context.Background()

	var calls int32
	loader := func() (map[string]int64, error) {
		atomic.AddInt32(&calls, 1)
		return map[string]int64{"character": 3}, nil
	}

	stats, err := cache.GetOrLoad(ctx, 7, loader)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats["character"])

	stats, err = cache.GetOrLoad(ctx, 7, loader)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats["character"])
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.True(t, mr.Exists(ProjectStatisticsKey(7)))

	require.NoError(t, cache.Invalidate(ctx, 7))
	assert.False(t, mr.Exists(ProjectStatisticsKey(7)))

	_, err = cache.GetOrLoad(ctx, 7, loader)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestStatisticsCacheLoaderError(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewStatisticsCache(client, time.Minute)

	_, err := cache.GetOrLoad(context.Background(), 1, func() (map[string]int64, error) {
		return nil, errors.New("db down")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists(ProjectStatisticsKey(1)))
}

func TestStatisticsCacheInvalidateOnlyProject(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewStatisticsCache(client, time.Minute)
	ctx := context.Background()
	loader := func() (map[string]int64, error) { return map[string]int64{}, nil }

	_, err := cache.GetOrLoad(ctx, 1, loader)
	require.NoError(t, err)
	_, err = cache.GetOrLoad(ctx, 2, loader)
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx, 1))
	assert.False(t, mr.Exists(ProjectStatisticsKey(1)))
	assert.True(t, mr.Exists(ProjectStatisticsKey(2)))
}

func TestRateLimiterAllow(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()
	key := BuildRateLimitKey("session-1", "/api/v1/ai/chat")

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	remaining, err := limiter.Remaining(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	require.NoError(t, limiter.Reset(ctx, key))
	remaining, err = limiter.Remaining(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
}
