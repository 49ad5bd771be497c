package pkg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTimeout = 5 * time.Second

// RedisStore writes value as JSON under key. A zero ttl keeps the key
// until it is deleted.
func RedisStore(ctx context.Context, client redis.Cmdable, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	return client.Set(ctx, key, data, ttl).Err()
}

// RedisLoad reads the JSON value stored under key. found is false, with a
// nil error, when the key does not exist.
func RedisLoad[T any](ctx context.Context, client redis.Cmdable, key string) (value T, found bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	data, err := client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return value, false, nil
	case err != nil:
		return value, false, err
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return value, true, nil
}

func RedisDelete(ctx context.Context, client redis.Cmdable, key string) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	return client.Del(ctx, key).Err()
}
