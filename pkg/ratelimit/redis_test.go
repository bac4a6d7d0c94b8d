package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client, "newswire:")
}

func TestRedisStore_Incr(t *testing.T) {
	mr, store := newTestRedis(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	count, resetAt, err := store.Incr(ctx, "newsletter:1.2.3.4", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resetAt, 5*time.Second)
	assert.Equal(t, time.Hour, mr.TTL("newswire:newsletter:1.2.3.4"))

	count, _, err = store.Incr(ctx, "newsletter:1.2.3.4", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// window expires, counter starts over
	mr.FastForward(time.Hour + time.Second)
	count, _, err = store.Incr(ctx, "newsletter:1.2.3.4", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRedisStore_RestoresMissingExpiry(t *testing.T) {
	mr, store := newTestRedis(t)
	require.NoError(t, mr.Set("newswire:k", "3"))

	count, _, err := store.Incr(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, time.Minute, mr.TTL("newswire:k"))
}

func TestRedisStore_WithLimiter(t *testing.T) {
	_, store := newTestRedis(t)
	lim := &Limiter{Store: store, Max: 2, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := lim.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := lim.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Positive(t, res.RetryAfter())
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, store := newTestRedis(t)
	mr.Close()

	_, _, err := store.Incr(context.Background(), "k", time.Minute)
	require.Error(t, err)

	lim := &Limiter{Store: store, Max: 1, Window: time.Minute}
	res, err := lim.Allow(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, res.Allowed, "fails open")
}
