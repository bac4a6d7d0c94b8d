package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a CounterStore shared by all instances using the same redis
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore makes a redis backed counter store, prefix is prepended to every key
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Incr increments key and sets its expiration on the first hit of a window
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	key = s.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("incr %s: %w", key, err)
	}

	now := time.Now()
	left := ttl.Val()
	if incr.Val() == 1 || left < 0 {
		// new window, or key left without expiration by an interrupted earlier call
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("expire %s: %w", key, err)
		}
		left = window
	}
	return int(incr.Val()), now.Add(left), nil
}

// Ping checks redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
