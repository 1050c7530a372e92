// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore implements [Store] on an in-process go-cache instance.
type MemoryStore struct {
	items *gocache.Cache
	// go-cache has no create-or-increment primitive, so Incr is serialised here.
	counterMu sync.Mutex
}

// NewMemoryStore creates a store whose expired entries are swept every cleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (store *MemoryStore) Get(_ context.Context, key string, dest any) error {
	value, found := store.items.Get(key)
	if !found {
		return ErrMiss
	}

	raw, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cache: %q does not hold a JSON value", key)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return nil
}

func (store *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}

	store.items.Set(key, raw, ttl)
	return nil
}

func (store *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	store.counterMu.Lock()
	defer store.counterMu.Unlock()

	if _, found := store.items.Get(key); !found {
		store.items.Set(key, int64(1), gocache.NoExpiration)
		return 1, nil
	}
	return store.items.IncrementInt64(key, 1)
}

func (store *MemoryStore) Counter(_ context.Context, key string) (int64, error) {
	value, found := store.items.Get(key)
	if !found {
		return 0, nil
	}

	counter, ok := value.(int64)
	if !ok {
		return 0, fmt.Errorf("cache: %q is not a counter", key)
	}
	return counter, nil
}

func (store *MemoryStore) Ping(context.Context) error { return nil }

func (store *MemoryStore) Close() error {
	store.items.Flush()
	return nil
}
