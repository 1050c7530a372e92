// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lexora/internal/platform/middleware"
	requestutil "github.com/taibuivan/lexora/internal/platform/request"
	"github.com/taibuivan/lexora/internal/platform/respond"
	"github.com/taibuivan/lexora/internal/platform/sec"
)

// Handler implements the admin authentication endpoints.
//
// # Scope
//
// Register, login, logout and the "who am I" probe used by the admin UI's page guard.
type Handler struct {
	authService       *Service
	attemptsPerMinute int
}

// NewHandler constructs a new [Handler]. attemptsPerMinute throttles
// register and login per client IP.
func NewHandler(service *Service, attemptsPerMinute int) *Handler {
	return &Handler{authService: service, attemptsPerMinute: attemptsPerMinute}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates an admin account and signs it in.
//   - POST /login    : Verifies credentials and sets the session cookie.
//   - POST /logout   : Expires the session cookie.
//   - GET  /me       : Returns the current admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(router chi.Router) {
		router.Use(middleware.AuthThrottle(handler.attemptsPerMinute))
		router.Post("/register", handler.register)
		router.Post("/login", handler.login)
	})

	router.Post("/logout", handler.logout)
	router.With(middleware.RequireAdmin).Get("/me", handler.me)

	return router
}

// sessionResponse is the body returned after a successful register or login.
// The token itself only travels in the HttpOnly cookie.
type sessionResponse struct {
	User      *sec.Identity `json:"user"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

type registerRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"name"`
}

// register handles POST /api/v1/admin/auth/register.
//
// # Returns
//   - 201 Created with the user, and the session cookie set.
//   - 400 on validation failure, 403 when disabled, 409 if the email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.authService.Cookies().Write(writer, session.Token, session.ExpiresAt)
	respond.Created(writer, sessionResponse{User: session.User, ExpiresAt: session.ExpiresAt})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/v1/admin/auth/login.
//
// # Returns
//   - 200 OK with the user, and the session cookie set.
//   - 401 for any credential failure, without saying which.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.authService.Cookies().Write(writer, session.Token, session.ExpiresAt)
	respond.OK(writer, sessionResponse{User: session.User, ExpiresAt: session.ExpiresAt})
}

// logout handles POST /api/v1/admin/auth/logout. It always succeeds.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.authService.Logout(request.Context(), requestutil.Identity(request))
	handler.authService.Cookies().Clear(writer)
	respond.OK(writer, map[string]bool{"success": true})
}

// me handles GET /api/v1/admin/auth/me.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, identity)
}
