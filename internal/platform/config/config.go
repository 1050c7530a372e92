// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Lexora API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL      string `env:"DATABASE_URL,required,notEmpty"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"20"`
	DatabaseMinConns int32  `env:"DATABASE_MIN_CONNS" envDefault:"2"`

	// Key-Value Cache (Redis). Empty selects the in-process cache.
	RedisURL      string        `env:"REDIS_URL"`
	RedisPoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	CacheTTL      time.Duration `env:"CACHE_TTL"       envDefault:"30s"`

	// Admin session signing
	AuthSecret            string        `env:"AUTH_SECRET,required,notEmpty"`
	SessionTTL            time.Duration `env:"AUTH_SESSION_TTL"        envDefault:"168h"`
	AllowRegistration     bool          `env:"AUTH_ALLOW_REGISTRATION" envDefault:"true"`
	AuthAttemptsPerMinute int           `env:"LOGIN_RATE_LIMIT"        envDefault:"10"`

	// Global per-IP token bucket
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"150"`

	// Cross-Origin Resource Sharing
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Reverse proxies (CIDRs) whose X-Forwarded-For / X-Real-IP headers are
	// believed. Empty means clients are identified by the socket address only.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	proxyPrefixes []netip.Prefix
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.AuthSecret) < 32 {
		return fmt.Errorf("config: AUTH_SECRET must be at least 32 bytes")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: AUTH_SESSION_TTL must be positive")
	}
	if c.DatabaseMaxConns < 1 || c.DatabaseMinConns < 0 || c.DatabaseMinConns > c.DatabaseMaxConns {
		return fmt.Errorf("config: DATABASE_MIN_CONNS must be within 0..DATABASE_MAX_CONNS")
	}
	if c.AuthAttemptsPerMinute < 1 {
		return fmt.Errorf("config: LOGIN_RATE_LIMIT must be at least 1")
	}

	c.proxyPrefixes = make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			return fmt.Errorf("config: TRUSTED_PROXIES entry %q is not a CIDR: %w", raw, err)
		}
		c.proxyPrefixes = append(c.proxyPrefixes, prefix.Masked())
	}
	return nil
}

// ProxyPrefixes returns the parsed TRUSTED_PROXIES ranges.
func (c *Config) ProxyPrefixes() []netip.Prefix {
	return c.proxyPrefixes
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
// Session cookies are only marked Secure in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
