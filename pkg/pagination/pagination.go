// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for page-based listings.
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage keeps (page-1)*MaxLimit inside an int.
	MaxPage = math.MaxInt / MaxLimit
)

// Params holds a normalised page and limit.
type Params struct {
	Page  int
	Limit int
}

// New normalises raw page/limit values.
//
// A page below 1 becomes 1 and a page above [MaxPage] is clamped to it. A
// limit below 1 becomes defaultLimit, and a limit above [MaxLimit] is clamped
// to it.
func New(page, limit, defaultLimit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
// It saturates at math.MaxInt instead of wrapping negative.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// NewMeta constructs pagination metadata for a response.
//
// HasMore is true when a later page exists.
func NewMeta(params Params, total int) Meta {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    params.Page < totalPages,
	}
}

// FromRequest parses "page" and "limit" query parameters and normalises them with [New].
func FromRequest(r *http.Request, defaultLimit int) Params {
	return New(
		parseIntParam(r, "page", DefaultPage),
		parseIntParam(r, "limit", defaultLimit),
		defaultLimit,
	)
}

func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
