package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore guarda los metadatos bajo <prefix>meta:<key>.
// Comparte el cliente con el LocalStore de redis, que es quien lo cierra.
type RedisStore struct {
	client redisClient
	prefix string
}

func NewRedisStore(client redisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key() string {
	return r.prefix + "meta:" + keyLastListFetch
}

func (r *RedisStore) LastListFetch(ctx context.Context) (time.Time, error) {
	v, err := r.client.Get(ctx, r.key()).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("redis get %s: %w", keyLastListFetch, err)
	}
	return decodeMillis(v)
}

func (r *RedisStore) SetLastListFetch(ctx context.Context, ts time.Time) error {
	return r.client.Set(ctx, r.key(), encodeMillis(ts), 0).Err()
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key()).Err()
}

func (r *RedisStore) Close() error { return nil }
