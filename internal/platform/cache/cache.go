// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache provides a small JSON cache used for public blog listings.

Two backends implement [Store]:

  - [RedisStore]: shared across API replicas (go-redis).
  - [MemoryStore]: per-process fallback when no Redis URL is configured (go-cache).

Values are stored as JSON bytes in both backends, so a cached value never
aliases a caller's struct.

Invalidation uses a generation counter instead of key scans. Readers embed
the current generation in their keys, and writers call Incr on it. Old entries
simply age out.
*/
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a JSON key/value cache with per-entry TTL.
type Store interface {
	// Get decodes the value stored at key into dest. Returns ErrMiss when absent.
	Get(ctx context.Context, key string, dest any) error

	// Set encodes value as JSON and stores it for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Incr atomically increments an integer counter, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)

	// Counter reads an integer counter, returning 0 when absent.
	Counter(ctx context.Context, key string) (int64, error)

	// Ping reports backend health for readiness probes.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
