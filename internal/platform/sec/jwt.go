// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives for the admin gate.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, session
// signing) from the domain logic. The auth service consumes it through the
// [SessionIssuer] and [SessionVerifier] contracts it declares.
//
// # Revocation
//
// Sessions are stateless HS256 tokens. There is no server-side denylist, so a
// leaked token stays valid until its exp claim passes. The per-request user
// re-check in the auth service limits the damage to accounts that still exist
// and still hold the admin role.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/lexora/pkg/uuid"
)

// ErrSecretTooShort is returned when the signing secret is shorter than 32 bytes.
var ErrSecretTooShort = errors.New("sec: session secret must be at least 32 bytes")

const minSecretBytes = 32

// SessionClaims is the payload embedded inside an admin session token.
//
// The subject (sub) carries the user id. Claims are kept short to keep the
// cookie small.
type SessionClaims struct {
	jwt.RegisteredClaims

	Role UserRole `json:"rol"`
}

// UserID returns the session subject.
func (claims *SessionClaims) UserID() string {
	return claims.Subject
}

// TokenService signs and verifies admin sessions with HMAC-SHA256.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService.
//
// # Parameters
//   - secret: Server-side signing secret (>= 32 bytes).
//   - issuer: Value of the iss claim; tokens with any other issuer are rejected.
//   - ttl: Fixed session lifetime.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretBytes {
		return nil, ErrSecretTooShort
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// IssueSession creates a signed session token for a user.
//
// # Returns
//   - The compact JWT string.
//   - The absolute expiry, for the cookie.
func (service *TokenService) IssueSession(userID string, role UserRole) (string, time.Time, error) {
	issuedAt := service.now()
	expiresAt := issuedAt.Add(service.ttl)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign session: %w", err)
	}

	return signedToken, expiresAt, nil
}

// VerifySession checks the signature, algorithm, issuer and expiry of a session token.
//
// Callers must not surface the returned error to clients; every failure
// reason is equivalent from the outside.
func (service *TokenService) VerifySession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid session: %w", err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("sec: invalid session claims")
	}

	return claims, nil
}
