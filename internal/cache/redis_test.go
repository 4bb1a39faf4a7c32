package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestLikeCount(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	_, ok, err := c.GetLikeCount(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	// increment on a miss must not create the key
	require.NoError(t, c.IncrLikeCount(ctx, 7))
	assert.False(t, mr.Exists("likes:count:7"))

	require.NoError(t, c.UpdateLikeCount(ctx, 7, 4))
	require.NoError(t, c.IncrLikeCount(ctx, 7))

	n, ok, err := c.GetLikeCount(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)

	mr.FastForward(2 * time.Hour)
	_, ok, _ = c.GetLikeCount(ctx, 7)
	assert.False(t, ok)
}

func TestIncrLikeCount_KeepsTTLAndSkipsExpired(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.UpdateLikeCount(ctx, 9, 1))
	mr.FastForward(50 * time.Minute)
	require.NoError(t, c.IncrLikeCount(ctx, 9))
	assert.Equal(t, time.Hour, mr.TTL("likes:count:9"))

	mr.FastForward(time.Hour + time.Second)
	require.NoError(t, c.IncrLikeCount(ctx, 9))
	assert.False(t, mr.Exists("likes:count:9"), "an expired count is not recreated without a TTL")
}

func TestActivityTracker(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	tr := NewActivityTracker(c, 8*time.Hour)

	active, err := tr.RecentlyActive(ctx, 1)
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, tr.Touch(ctx, 1, time.Now()))
	active, _ = tr.RecentlyActive(ctx, 1)
	assert.True(t, active)

	mr.FastForward(8*time.Hour + time.Second)
	active, _ = tr.RecentlyActive(ctx, 1)
	assert.False(t, active)
}

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	l := NewRateLimiter(c,
		Window{Name: "minute", Limit: 3, Length: time.Minute},
		Window{Name: "off", Limit: 0, Length: time.Hour},
	)

	now := time.Date(2026, 1, 1, 10, 0, 5, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "42", now)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "42", now)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "43", now)
	assert.True(t, ok, "subjects are counted separately")

	ok, _ = l.Allow(ctx, "42", now.Add(time.Minute))
	assert.True(t, ok, "next window starts fresh")
}
