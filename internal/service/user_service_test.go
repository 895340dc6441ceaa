package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterStoresOnlyHash(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), "alice@example.com", "alice", "secret1")
	require.NoError(t, err)

	assert.Empty(t, user.PasswordHash, "returned user must not carry the hash")
	assert.Contains(t, user.ProfileImage, "seed=alice")

	stored, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "secret1")
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	cases := []struct {
		name                      string
		email, username, password string
	}{
		{"missing email", "", "alice", "secret1"},
		{"missing username", "alice@example.com", "", "secret1"},
		{"missing password", "alice@example.com", "alice", ""},
		{"short username", "alice@example.com", "al", "secret1"},
		{"short password", "alice@example.com", "alice", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.email, tc.username, tc.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "other", "secret1")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, "other@example.com", "alice", "secret1")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice", "secret1")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByIDNotFound(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUserRepo())

	_, err := svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
