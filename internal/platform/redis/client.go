// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package redis dials the optional shared listing cache. It is only used when
// REDIS_URL is set; otherwise the API keeps its cache in process.
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/lexora/internal/platform/constants"
)

const pingTimeout = 2 * time.Second

// ClientOptions tunes the client. Zero fields take the defaults.
type ClientOptions struct {
	PoolSize int

	// Timeout bounds dial, read and write. Cache calls sit on the request
	// path, so it stays short; a slow Redis degrades to a cache miss.
	Timeout time.Duration
}

// options merges the URL's settings with ClientOptions.
func options(redisURL string, client ClientOptions) (*redis.Options, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	if client.PoolSize <= 0 {
		client.PoolSize = constants.DefaultRedisPoolSize
	}
	if client.Timeout <= 0 {
		client.Timeout = 2 * time.Second
	}

	parsed.PoolSize = client.PoolSize
	parsed.MinIdleConns = min(2, client.PoolSize)
	parsed.MaxIdleConns = max(parsed.MinIdleConns, client.PoolSize/2)
	parsed.DialTimeout = client.Timeout
	parsed.ReadTimeout = client.Timeout
	parsed.WriteTimeout = client.Timeout
	if parsed.ClientName == "" {
		parsed.ClientName = constants.AppName
	}

	return parsed, nil
}

// NewClient dials redisURL and pings it once so that startup fails on a bad URL.
func NewClient(context stdctx.Context, redisURL string, client ClientOptions, logger *slog.Logger) (*redis.Client, error) {
	parsed, err := options(redisURL, client)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(parsed)
	if err := Ping(context, rdb); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", parsed.Addr),
		slog.Int("db", parsed.DB),
		slog.Int("pool_size", parsed.PoolSize),
	)
	return rdb, nil
}

// Ping is the readiness check for the cache.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
