// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Lexora HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Open the listing cache (Redis when REDIS_URL is set, in-process otherwise).
//  5. Run database migrations (idempotent).
//  6. Wire the auth gate and the blog service.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
// Startup errors are returned from run, so every resource opened before the
// failure is closed by its defer before the process exits non-zero.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/lexora/internal/api"
	"github.com/taibuivan/lexora/internal/auth"
	"github.com/taibuivan/lexora/internal/blog"
	"github.com/taibuivan/lexora/internal/platform/cache"
	"github.com/taibuivan/lexora/internal/platform/config"
	"github.com/taibuivan/lexora/internal/platform/constants"
	"github.com/taibuivan/lexora/internal/platform/migration"
	pgstore "github.com/taibuivan/lexora/internal/platform/postgres"
	redisstore "github.com/taibuivan/lexora/internal/platform/redis"
	"github.com/taibuivan/lexora/internal/platform/sec"
)

// memoryCacheSweep is how often the in-process cache drops expired listings.
const memoryCacheSweep = time.Minute

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return startupFailure(log, err, "load configuration")
	}

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("registration_open", cfg.AllowRegistration),
	)

	// Startup deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.PoolOptions{
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	}, log)
	if err != nil {
		return startupFailure(log, err, "connect to postgres")
	}
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 4. Listing Cache ──────────────────────────────────────────────────
	var listingCache cache.Store
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, redisstore.ClientOptions{PoolSize: cfg.RedisPoolSize}, log)
		if err != nil {
			return startupFailure(log, err, "connect to redis")
		}
		listingCache = cache.NewRedisStore(rdb)
	} else {
		log.Info("listing_cache_in_process")
		listingCache = cache.NewMemoryStore(memoryCacheSweep)
	}
	defer func() {
		log.Info("listing_cache_closing")
		if cerr := listingCache.Close(); cerr != nil {
			log.Error("listing_cache_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	if err := migration.RunUp(cfg.DatabaseURL, log); err != nil {
		return startupFailure(log, err, "run migrations")
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.AuthSecret, constants.AuthIssuer, cfg.SessionTTL)
	if err != nil {
		return startupFailure(log, err, "initialize session signer")
	}

	authService := auth.NewService(auth.NewUserRepository(pool), tokens, auth.Options{
		AllowRegistration: cfg.AllowRegistration,
		Cookie:            auth.DefaultCookieSettings(cfg.IsProduction()),
	}, log)

	blogService := blog.NewService(blog.NewPostRepository(pool), blog.NewTaxonomyRepository(pool), blog.Options{
		Cache:    listingCache,
		CacheTTL: cfg.CacheTTL,
	}, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    listingCache.Ping,
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, authService, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, cfg.AuthAttemptsPerMinute),
		Blog:      blog.NewHandler(blogService),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	var runErr error
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case runErr = <-serverErr:
		log.Error("server_failed", slog.Any("error", runErr))
	}

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// HTTP drains first, then detached view increments, then the deferred
	// cache and pool closes run.
	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), constants.BackgroundTaskTimeout)
	defer drainCancel()
	if err := blogService.Wait(drainCtx); err != nil {
		log.Warn("background_tasks_abandoned", slog.Any("error", err))
	}

	log.Info("server_stopped")
	return runErr
}

// startupFailure logs a structured startup error and returns it so that run
// unwinds through its defers.
func startupFailure(log *slog.Logger, err error, step string) error {
	log.Error("startup_failure",
		slog.String("context", step),
		slog.Any("error", err),
	)
	return err
}
