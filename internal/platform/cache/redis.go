// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	redisstore "github.com/taibuivan/lexora/internal/platform/redis"
)

// RedisStore implements [Store] on a go-redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (store *RedisStore) Get(ctx context.Context, key string, dest any) error {
	raw, err := store.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("cache: redis get %q: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return nil
}

func (store *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}

	if err := store.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set %q: %w", key, err)
	}
	return nil
}

func (store *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	value, err := store.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache: redis incr %q: %w", key, err)
	}
	return value, nil
}

func (store *RedisStore) Counter(ctx context.Context, key string) (int64, error) {
	raw, err := store.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache: redis get %q: %w", key, err)
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (store *RedisStore) Ping(ctx context.Context) error {
	return redisstore.Ping(ctx, store.client)
}

func (store *RedisStore) Close() error {
	return store.client.Close()
}
