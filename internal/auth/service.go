// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/lexora/internal/platform/apperr"
	"github.com/taibuivan/lexora/internal/platform/sec"
	"github.com/taibuivan/lexora/internal/platform/validate"
	"github.com/taibuivan/lexora/pkg/uuid"
)

// SessionIssuer signs a new admin session for a user.
type SessionIssuer interface {
	IssueSession(userID string, role sec.UserRole) (token string, expiresAt time.Time, err error)
}

// SessionVerifier checks a session token's signature, algorithm, issuer and expiry.
type SessionVerifier interface {
	VerifySession(token string) (*sec.SessionClaims, error)
}

// SessionSigner is the pair the service needs; [sec.TokenService] satisfies it.
type SessionSigner interface {
	SessionIssuer
	SessionVerifier
}

// errInvalidCredentials is the single answer for every failed login, so a
// caller cannot tell an unknown email from a wrong password or a non-admin account.
var errInvalidCredentials = apperr.Unauthorized("Invalid credentials")

// Options tune the gate.
type Options struct {
	// AllowRegistration keeps the open admin sign-up endpoint enabled.
	AllowRegistration bool

	// Cookie describes the session cookie read by [Service.AuthenticateRequest].
	Cookie CookieSettings
}

// Service implements the admin authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed with the same care as a schema change.
type Service struct {
	userRepository    UserRepository
	signer            SessionSigner
	allowRegistration bool
	cookies           CookieSettings
	logger            *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepository UserRepository, signer SessionSigner, options Options, logger *slog.Logger) *Service {
	return &Service{
		userRepository:    userRepository,
		signer:            signer,
		allowRegistration: options.AllowRegistration,
		cookies:           options.Cookie,
		logger:            logger,
	}
}

// Cookies exposes the cookie settings the handlers write with.
func (service *Service) Cookies() CookieSettings {
	return service.cookies
}

// # Registration

// RegisterInput holds the data required to enrol a new administrator.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName *string
}

// Register validates, hashes, and persists a brand new admin account, then
// signs a session for it.
//
// # Returns
//   - The new [*Session].
//   - [apperr.Forbidden] when registration is disabled.
//   - [apperr.ValidationError] for a malformed email or password.
//   - [apperr.Conflict] if the email already exists.
//
// # Business Rules
//   - Emails are unique, compared lower-cased.
//   - Registered accounts receive the admin role.
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	if !service.allowRegistration {
		return nil, apperr.Forbidden("Registration is disabled")
	}

	// ── 1. Boundary Validation ────────────────────────────────────────────

	email := normalizeEmail(input.Email)
	validator := &validate.Validator{}
	validator.Required("email", email).Email("email", email).
		Required("password", input.Password).
		MinLen("password", input.Password, 8).
		MaxLen("password", input.Password, 128)
	if input.DisplayName != nil {
		validator.MaxLen("name", *input.DisplayName, 100)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Uniqueness Pre-check ───────────────────────────────────────────

	// The unique constraint still decides concurrent registrations; this only
	// avoids hashing a password for an obvious duplicate.
	_, err := service.userRepository.FindByEmail(context, email)
	switch {
	case err == nil:
		return nil, apperr.Conflict("Email is already registered")
	case !apperr.IsNotFound(err):
		return nil, err
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth: hash password: %w", err))
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		DisplayName:  trimOptional(input.DisplayName),
		Role:         sec.RoleAdmin,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "admin_registered", slog.String("user_id", user.ID))

	return service.issue(user)
}

// # Login

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Login validates credentials and signs a session.
//
// # Flow
//  1. Lookup the account by lower-cased email.
//  2. Verify the bcrypt hash (a dummy hash is checked for unknown emails).
//  3. Require the admin role.
//  4. Sign the session.
//
// Every failure in steps 1-3 returns the same Unauthorized error.
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	email := normalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required("email", email).Required("password", input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, err
		}
		sec.BurnPasswordCheck(input.Password)
		service.logger.InfoContext(context, "login_failed", slog.String("reason", "unknown_email"))
		return nil, errInvalidCredentials
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.logger.InfoContext(context, "login_failed", slog.String("reason", "bad_password"), slog.String("user_id", user.ID))
		return nil, errInvalidCredentials
	}

	if user.Role != sec.RoleAdmin {
		service.logger.InfoContext(context, "login_failed", slog.String("reason", "not_admin"), slog.String("user_id", user.ID))
		return nil, errInvalidCredentials
	}

	service.logger.InfoContext(context, "login_succeeded", slog.String("user_id", user.ID))

	return service.issue(user)
}

// Logout has no server-side state to clear; the handler expires the cookie.
// It exists so the audit trail records the event.
func (service *Service) Logout(context context.Context, identity *sec.Identity) {
	if identity == nil {
		return
	}
	service.logger.InfoContext(context, "logout", slog.String("user_id", identity.UserID))
}

// # Session Resolution

// Authenticate resolves a session token into the current admin identity.
//
// The token is verified first, then the account is re-read, so a deleted or
// demoted admin stops resolving immediately. Every failure collapses to nil;
// the reason is logged at debug level only.
func (service *Service) Authenticate(context context.Context, token string) *sec.Identity {
	if token == "" {
		return nil
	}

	claims, err := service.signer.VerifySession(token)
	if err != nil {
		service.logger.DebugContext(context, "session_rejected", slog.String("reason", err.Error()))
		return nil
	}

	user, err := service.userRepository.FindByID(context, claims.UserID())
	if err != nil {
		service.logger.DebugContext(context, "session_user_unavailable",
			slog.String("user_id", claims.UserID()),
			slog.Any("error", err),
		)
		return nil
	}

	if user.Role != sec.RoleAdmin {
		service.logger.DebugContext(context, "session_user_not_admin", slog.String("user_id", user.ID))
		return nil
	}

	return user.Identity()
}

// AuthenticateRequest reads the session cookie from request and resolves it.
// It satisfies middleware.Authenticator.
func (service *Service) AuthenticateRequest(request *http.Request) *sec.Identity {
	return service.Authenticate(request.Context(), service.cookies.Read(request))
}

func (service *Service) issue(user *User) (*Session, error) {
	token, expiresAt, err := service.signer.IssueSession(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth: issue session: %w", err))
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: user.Identity()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
