// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lexora/internal/auth"
	"github.com/taibuivan/lexora/internal/platform/apperr"
	"github.com/taibuivan/lexora/internal/platform/sec"
)

const testSecret = "test-secret-test-secret-test-secret!"

// memoryUsers is an in-memory UserRepository.
type memoryUsers struct {
	mu   sync.Mutex
	byID map[string]*auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[string]*auth.User)}
}

func (repo *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repo *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUsers) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.byID {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	copied := *user
	repo.byID[user.ID] = &copied
	return nil
}

func (repo *memoryUsers) setRole(id string, role sec.UserRole) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.byID[id].Role = role
}

func (repo *memoryUsers) delete(id string) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.byID, id)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, allowRegistration bool) (*auth.Service, *memoryUsers) {
	t.Helper()

	tokens, err := sec.NewTokenService(testSecret, "lexora", 7*24*time.Hour)
	require.NoError(t, err)

	users := newMemoryUsers()
	service := auth.NewService(users, tokens, auth.Options{
		AllowRegistration: allowRegistration,
		Cookie:            auth.DefaultCookieSettings(false),
	}, discardLogger())

	return service, users
}
