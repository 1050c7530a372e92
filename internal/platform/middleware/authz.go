// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/taibuivan/lexora/internal/platform/apperr"
	"github.com/taibuivan/lexora/internal/platform/constants"
	"github.com/taibuivan/lexora/internal/platform/ctxutil"
	"github.com/taibuivan/lexora/internal/platform/respond"
	"github.com/taibuivan/lexora/internal/platform/sec"
)

// Authenticator resolves the admin behind a request's session cookie.
// The auth service implements it.
type Authenticator interface {
	AuthenticateRequest(request *http.Request) *sec.Identity
}

// Authenticate resolves the session cookie into an [*sec.Identity].
//
// # Flow
//  1. Ask the [Authenticator] for the identity (nil when anonymous or invalid).
//  2. If present, inject it into the request context for downstream use.
//  3. Never rejects: gating is the job of [RequireAdmin] / [RequireRole].
func Authenticate(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := authenticator.AuthenticateRequest(request)
			if identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			if holder := holderFrom(request.Context()); holder != nil {
				holder.identity = identity
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context (implies AuthN).
//  2. Check the role with [sec.UserRole.AtLeast].
//  3. If insufficient, abort with HTTP 403 Forbidden.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAdmin is RequireRole(sec.RoleAdmin), the gate on every /admin route.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(sec.RoleAdmin)(next)
}

// AuthThrottle limits credential endpoints to attemptsPerMinute per client IP.
func AuthThrottle(attemptsPerMinute int) func(http.Handler) http.Handler {
	if attemptsPerMinute < 1 {
		attemptsPerMinute = constants.DefaultAuthAttemptsPerMinute
	}

	return httprate.Limit(
		attemptsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(request *http.Request) (string, error) {
			return RealIP(request), nil
		}),
		httprate.WithLimitHandler(func(writer http.ResponseWriter, request *http.Request) {
			respond.Error(writer, request, apperr.RateLimited(int(time.Minute.Seconds())))
		}),
	)
}
