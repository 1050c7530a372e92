// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth implements the admin Authentication Gate: account registration,
// credential login, stateless cookie sessions and per-request identity resolution.
//
// # Architecture
//
// The service talks to storage through [UserRepository] and to the signing
// primitives through [SessionIssuer] / [SessionVerifier]. It never touches
// HTTP; cookie handling lives in session.go and the handlers in http.go.
package auth

import (
	"time"

	"github.com/taibuivan/lexora/internal/platform/sec"
)

// User is a stored administrator account.
//
// # Rules
//   - Email is unique and stored lower-cased.
//   - PasswordHash is generated via bcrypt exclusively by [Service].
//   - Only [sec.RoleAdmin] accounts can log in or resolve as an identity.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  *string      `json:"name,omitempty"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Identity projects the account onto the public, hash-free view.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}
}

// Session is the outcome of a successful Register or Login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *sec.Identity
}
