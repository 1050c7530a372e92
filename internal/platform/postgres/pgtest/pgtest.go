// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pgtest starts a throwaway PostgreSQL container for repository
// integration tests and migrates it to the current schema.
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/lexora/internal/platform/migration"
	"github.com/taibuivan/lexora/internal/platform/postgres"
)

const image = "docker.io/postgres:16-alpine"

// NewPool returns a pool on a freshly migrated database.
//
// The test is skipped under -short, or when no container runtime is
// reachable. The container is terminated on cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("postgres integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, image,
		tcpostgres.WithDatabase("lexora"),
		tcpostgres.WithUsername("lexora"),
		tcpostgres.WithPassword("lexora"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(dsn, logger))

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 8}, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}
