// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr translates PostgreSQL failures into [apperr.AppError] values.
//
// Uniqueness races (two creators of the same slug, two registrations with the
// same email) are resolved by the storage layer's unique constraints; this is
// where the losing side's 23505 becomes a Conflict.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/lexora/internal/platform/apperr"
)

// Wrap inspects a database error and classifies it.
//
//   - pgx.ErrNoRows       -> NotFound(resource)
//   - unique_violation    -> Conflict
//   - foreign_key_violation, invalid_text_representation -> ValidationError
//   - anything else       -> Internal (cause kept for logging)
//
// Errors that are already an [apperr.AppError] pass through untouched.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if apperr.As(err) != nil {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			conflict := apperr.Conflict(fmt.Sprintf("%s already exists", resource))
			conflict.Cause = err
			return conflict

		case pgerrcode.ForeignKeyViolation:
			invalid := apperr.ValidationError("Referenced record does not exist",
				apperr.FieldError{Field: pgErr.ConstraintName, Message: "Unknown reference"})
			invalid.Cause = err
			return invalid

		case pgerrcode.InvalidTextRepresentation:
			// Usually a malformed UUID literal.
			invalid := apperr.ValidationError("Malformed identifier")
			invalid.Cause = err
			return invalid
		}
	}

	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a 23505, optionally on a named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
