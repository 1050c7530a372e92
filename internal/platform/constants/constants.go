// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and session cookie configuration.
  - Cache: key prefixes for listing caches.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "lexora-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// BackgroundTaskTimeout bounds detached work such as view counting.
	BackgroundTaskTimeout = 5 * time.Second
)

// # Backing Stores

const (
	// DefaultDatabaseMaxConns caps the pgx pool when DATABASE_MAX_CONNS is unset.
	DefaultDatabaseMaxConns = 20

	// DefaultRedisPoolSize caps the go-redis pool when REDIS_POOL_SIZE is unset.
	DefaultRedisPoolSize = 10
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// DefaultAuthAttemptsPerMinute throttles login/register per IP.
	DefaultAuthAttemptsPerMinute = 10
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "lexora"

	// SessionCookieName is the cookie carrying the signed admin session.
	SessionCookieName = "admin_session"

	// SessionCookiePath scopes the session cookie to the whole site.
	SessionCookiePath = "/"

	// DefaultSessionTTL is the fixed lifetime of an admin session.
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCore  = "core"
	SchemaUsers = "users"
	SchemaBlog  = "blog"
)

// # Cache Keys (Cache Taxonomy)

const (
	// CacheKeyBlogGeneration is bumped on every blog write; listing keys embed it.
	CacheKeyBlogGeneration = "blog:generation"

	CachePrefixPublishedPosts = "blog:posts:"
	CachePrefixCategories     = "blog:categories:"
	CachePrefixTags           = "blog:tags:"

	// DefaultCacheTTL bounds how stale a cached listing may be.
	DefaultCacheTTL = 30 * time.Second
)
