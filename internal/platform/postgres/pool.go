// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pgx pool that the auth and blog repositories
// share. Nothing else in the module dials Postgres.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/lexora/internal/platform/constants"
)

const (
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
)

// PoolOptions sizes the pool. Zero fields take the package defaults.
type PoolOptions struct {
	MaxConns int32
	MinConns int32

	// StatementTimeout is sent as the session's statement_timeout, so a slow
	// listing query is cancelled server-side near the request deadline.
	StatementTimeout time.Duration
}

func (options PoolOptions) withDefaults() PoolOptions {
	if options.MaxConns <= 0 {
		options.MaxConns = constants.DefaultDatabaseMaxConns
	}
	if options.MinConns < 0 {
		options.MinConns = 0
	}
	if options.MinConns > options.MaxConns {
		options.MinConns = options.MaxConns
	}
	if options.StatementTimeout <= 0 {
		options.StatementTimeout = constants.GlobalRequestTimeout
	}
	return options
}

// config turns a DSN plus options into a pgxpool configuration.
func config(dsn string, options PoolOptions) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	options = options.withDefaults()
	poolConfig.MaxConns = options.MaxConns
	poolConfig.MinConns = options.MinConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	runtime := poolConfig.ConnConfig.RuntimeParams
	runtime["statement_timeout"] = strconv.FormatInt(options.StatementTimeout.Milliseconds(), 10)
	if runtime["application_name"] == "" {
		runtime["application_name"] = constants.AppName
	}

	return poolConfig, nil
}

// NewPool connects and pings before returning, so a bad DATABASE_URL fails
// startup instead of the first request.
func NewPool(ctx context.Context, dsn string, options PoolOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := config(dsn, options)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)

	return pool, nil
}

// Ping is the readiness check for the database.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
