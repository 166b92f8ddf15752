package service

import (
	"context"
	"testing"

	"timecapsule-backend/internal/auth"
	"timecapsule-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	tokenSvc, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)
	return NewUserService(repository.NewInMemoryStore(), tokenSvc)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	svc := newUserService(t)

	user, err := svc.Register(context.Background(), "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()
	svc := newUserService(t)

	_, err := svc.Register(context.Background(), "alice", "password123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "otherpassword")
	require.ErrorIs(t, err, ErrUserExists)
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()
	svc := newUserService(t)

	_, err := svc.Register(context.Background(), "", "password123")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), "alice", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	svc := newUserService(t)

	_, err := svc.Register(context.Background(), "alice", "password123")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()
	svc := newUserService(t)

	_, err := svc.Login(context.Background(), "nobody", "password123")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	svc := newUserService(t)

	_, err := svc.Register(context.Background(), "alice", "password123")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "wrongpassword")
	require.ErrorIs(t, err, ErrBadCredentials)
}
