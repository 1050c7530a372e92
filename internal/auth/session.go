// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/taibuivan/lexora/internal/platform/constants"
)

// CookieSettings describe the admin session cookie.
type CookieSettings struct {
	Name   string
	Path   string
	Secure bool
}

// DefaultCookieSettings returns the admin_session cookie, marked Secure when secure is true.
func DefaultCookieSettings(secure bool) CookieSettings {
	return CookieSettings{
		Name:   constants.SessionCookieName,
		Path:   constants.SessionCookiePath,
		Secure: secure,
	}
}

// Read returns the raw session token, or "" when the cookie is absent.
func (settings CookieSettings) Read(request *http.Request) string {
	cookie, err := request.Cookie(settings.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Write sets the session cookie to expire together with the token.
func (settings CookieSettings) Write(writer http.ResponseWriter, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Round(time.Second).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     settings.Name,
		Value:    token,
		Path:     settings.Path,
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear writes an already-expired cookie so the browser drops the session.
func (settings CookieSettings) Clear(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     settings.Name,
		Value:    "",
		Path:     settings.Path,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
