// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/lexora/internal/platform/apperr"
	"github.com/taibuivan/lexora/internal/platform/database/schema"
	"github.com/taibuivan/lexora/internal/platform/dberr"
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var (
	accountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

	insertAccountQuery = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.UserAccount.Table, accountColumns)

	selectAccountQuery = fmt.Sprintf(`SELECT %s FROM %s WHERE `, accountColumns, schema.UserAccount.Table)
)

// Create persists a new user record into the users.account table.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - user: The user entity to persist.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, insertAccountQuery,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err, schema.UserAccount.EmailKey) {
			conflict := apperr.Conflict("Email is already registered")
			conflict.Cause = err
			return conflict
		}
		return dberr.Wrap(fmt.Errorf("postgres: failed to create account: %w", err), "Account")
	}

	return nil
}

// FindByEmail retrieves a user record by their unique email address.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := selectAccountQuery + schema.UserAccount.Email + ` = $1`
	return repository.findOne(ctx, query, email)
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := selectAccountQuery + schema.UserAccount.ID + ` = $1`
	return repository.findOne(ctx, query, id)
}

func (repository *PostgresUserRepository) findOne(ctx context.Context, query string, arg string) (*User, error) {
	user, err := scanUser(repository.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
