// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/lexora/internal/platform/cache"
	"github.com/taibuivan/lexora/internal/platform/constants"
)

// # Service Layer

// Service orchestrates the blog's business rules: derivations, the
// publication state machine, get-or-create taxonomy and the listing cache.
type Service struct {
	postRepository     PostRepository
	taxonomyRepository TaxonomyRepository

	cache    cache.Store
	cacheTTL time.Duration

	logger *slog.Logger
	now    func() time.Time

	// background tracks detached view increments for graceful shutdown.
	background  sync.WaitGroup
	viewTimeout time.Duration
}

// Options tune the service. The zero value disables caching.
type Options struct {
	// Cache stores public listings. Nil disables caching.
	Cache cache.Store

	// CacheTTL bounds listing staleness; zero selects [constants.DefaultCacheTTL].
	CacheTTL time.Duration
}

// NewService constructs a new [Service] with its required repositories.
func NewService(postRepository PostRepository, taxonomyRepository TaxonomyRepository, options Options, logger *slog.Logger) *Service {
	ttl := options.CacheTTL
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}

	return &Service{
		postRepository:     postRepository,
		taxonomyRepository: taxonomyRepository,
		cache:              options.Cache,
		cacheTTL:           ttl,
		logger:             logger,
		now:                func() time.Time { return time.Now().UTC() },
		viewTimeout:        constants.BackgroundTaskTimeout,
	}
}

// Wait blocks until in-flight view increments finish or ctx is done.
func (service *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		service.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("blog: waiting for background tasks: %w", ctx.Err())
	}
}

// # Listing Cache

// cached serves key from the cache, or computes it with load and stores the
// result. Cache failures are logged and bypassed, never returned.
func cached[T any](ctx context.Context, service *Service, prefix, variant string, load func() (T, error)) (T, error) {
	if service.cache == nil {
		return load()
	}

	generation, err := service.cache.Counter(ctx, constants.CacheKeyBlogGeneration)
	if err != nil {
		service.logger.WarnContext(ctx, "blog_cache_unavailable", slog.String("error", err.Error()))
		return load()
	}

	key := fmt.Sprintf("%sg%d:%s", prefix, generation, variant)

	var hit T
	switch err := service.cache.Get(ctx, key, &hit); {
	case err == nil:
		return hit, nil
	case !errors.Is(err, cache.ErrMiss):
		service.logger.WarnContext(ctx, "blog_cache_read_failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := service.cache.Set(ctx, key, value, service.cacheTTL); err != nil {
		service.logger.WarnContext(ctx, "blog_cache_write_failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return value, nil
}

// invalidate bumps the generation so every cached listing is bypassed.
func (service *Service) invalidate(ctx context.Context) {
	if service.cache == nil {
		return
	}
	if _, err := service.cache.Incr(ctx, constants.CacheKeyBlogGeneration); err != nil {
		service.logger.WarnContext(ctx, "blog_cache_invalidate_failed", slog.String("error", err.Error()))
	}
}
