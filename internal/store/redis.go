package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore implements Store on top of a redis instance using native
// key expiry. Redis failures on the read path degrade to cache misses so a
// flaky cache never fails a resolution.
type RedisStore struct {
	client redis.UniversalClient
	log    *zap.SugaredLogger
}

// NewRedisStore wraps an existing redis client.
func NewRedisStore(client redis.UniversalClient, log *zap.SugaredLogger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

// Has reports whether key exists and has not expired.
func (s *RedisStore) Has(ctx context.Context, key string) bool {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.log.Warnw("redis exists failed; treating as miss", "key", key, "error", err)
		return false
	}
	return n > 0
}

// Get returns the cached value for key, or absent on miss or redis error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warnw("redis get failed; treating as miss", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

// Put stores value under key with the given ttl.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}
