// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lexora/internal/auth"
	"github.com/taibuivan/lexora/internal/platform/constants"
	"github.com/taibuivan/lexora/internal/platform/middleware"
)

func newAuthRouter(t *testing.T, allowRegistration bool) (http.Handler, *memoryUsers) {
	t.Helper()

	service, users := newTestService(t, allowRegistration)
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(service))
	router.Mount("/api/v1/admin/auth", auth.NewHandler(service, 100).Routes())
	return router, users
}

func post(router http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", constants.SessionCookieName)
	return nil
}

func TestHandler_RegisterSetsCookie(t *testing.T) {
	router, _ := newAuthRouter(t, true)

	recorder := post(router, "/api/v1/admin/auth/register", `{"email":"a@lexora.law","password":"password-1","name":"Ada"}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	cookie := sessionCookie(t, recorder)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.InDelta(t, 604800, cookie.MaxAge, 2)
	assert.False(t, cookie.Secure)

	var body struct {
		Data struct {
			User struct {
				ID    string `json:"id"`
				Email string `json:"email"`
				Name  string `json:"name"`
				Role  string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "a@lexora.law", body.Data.User.Email)
	assert.Equal(t, "Ada", body.Data.User.Name)
	assert.Equal(t, "admin", body.Data.User.Role)
	assert.NotContains(t, recorder.Body.String(), "password")
}

func TestHandler_LoginMeLogout(t *testing.T) {
	router, _ := newAuthRouter(t, true)

	require.Equal(t, http.StatusCreated,
		post(router, "/api/v1/admin/auth/register", `{"email":"a@lexora.law","password":"password-1"}`).Code)

	bad := post(router, "/api/v1/admin/auth/login", `{"email":"a@lexora.law","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
	assert.Empty(t, bad.Result().Cookies())

	login := post(router, "/api/v1/admin/auth/login", `{"email":"a@lexora.law","password":"password-1"}`)
	require.Equal(t, http.StatusOK, login.Code)
	cookie := sessionCookie(t, login)

	me := httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/me", nil)
	me.AddCookie(cookie)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, me)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"email":"a@lexora.law"`)

	anonymous := httptest.NewRecorder()
	router.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	// Logout is idempotent and always clears the cookie.
	for range 2 {
		logout := post(router, "/api/v1/admin/auth/logout", ``, cookie)
		assert.Equal(t, http.StatusOK, logout.Code)
		assert.Less(t, sessionCookie(t, logout).MaxAge, 0)
	}
}

func TestHandler_RegisterDisabled(t *testing.T) {
	router, _ := newAuthRouter(t, false)

	recorder := post(router, "/api/v1/admin/auth/register", `{"email":"a@lexora.law","password":"password-1"}`)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestHandler_InvalidJSON(t *testing.T) {
	router, _ := newAuthRouter(t, true)

	recorder := post(router, "/api/v1/admin/auth/login", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
