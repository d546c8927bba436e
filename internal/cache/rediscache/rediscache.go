package rediscache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	c *redis.Client
}

func New(addr string) *RedisCache {
	return &RedisCache{
		c: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.c.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.c.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}

// DelPrefix удаляет все ключи с данным префиксом через SCAN (не KEYS):
// так инвалидируется скоуп после правки тарифа в админке.
func (r *RedisCache) DelPrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		dropped int
	)
	for {
		keys, next, err := r.c.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return dropped, errors.Wrap(err, "redis scan")
		}
		if len(keys) > 0 {
			if err := r.c.Del(ctx, keys...).Err(); err != nil {
				return dropped, errors.Wrap(err, "redis del")
			}
			dropped += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return dropped, nil
		}
	}
}
