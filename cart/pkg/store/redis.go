package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores the snapshot as a JSON string under Key. Every Save refreshes the TTL so
// an active session never expires.
type RedisRepository[T any] struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func NewRedisRepository[T any](client redis.Cmdable, key string, ttl time.Duration) *RedisRepository[T] {
	return &RedisRepository[T]{client: client, key: key, ttl: ttl}
}

func (r *RedisRepository[T]) Load(c context.Context) (T, error) {
	var value T
	data, err := r.client.Get(c, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, ErrNotFound
	}
	if err != nil {
		return value, fmt.Errorf("failed getting key=%s with error=%w", r.key, err)
	}
	if err = json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("failed decoding key=%s with error=%w", r.key, err)
	}
	return value, nil
}

func (r *RedisRepository[T]) Save(c context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed encoding state with error=%w", err)
	}
	if err = r.client.Set(c, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed setting key=%s with error=%w", r.key, err)
	}
	return nil
}

func (r *RedisRepository[T]) Delete(c context.Context) error {
	if err := r.client.Del(c, r.key).Err(); err != nil {
		return fmt.Errorf("failed deleting key=%s with error=%w", r.key, err)
	}
	return nil
}
