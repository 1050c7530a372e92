// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction and common body decoding patterns
behind a few helpers so that handlers stay short.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/lexora/internal/platform/apperr"
	"github.com/taibuivan/lexora/internal/platform/ctxutil"
	"github.com/taibuivan/lexora/internal/platform/sec"
	"github.com/taibuivan/lexora/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies. Post content is HTML and can be large.
const maxBodyBytes = 4 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns validate.ErrInvalidJSON if decoding fails.
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// QueryString returns a trimmed query parameter.
func QueryString(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

// QueryInt parses an integer query parameter, falling back to def when absent or malformed.
func QueryInt(request *http.Request, name string, def int) int {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

// QueryBool parses an optional tri-state boolean: "true", "false", or absent (nil).
// Any other value is treated as absent.
func QueryBool(request *http.Request, name string) *bool {
	switch request.URL.Query().Get(name) {
	case "true":
		value := true
		return &value
	case "false":
		value := false
		return &value
	}
	return nil
}

// Identity returns the authenticated admin, or nil for anonymous requests.
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the admin.

Returns apperr.Unauthorized if the request carries no valid session.
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return identity, nil
}
