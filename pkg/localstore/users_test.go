package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccounts(t *testing.T) *Accounts {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	return NewAccounts(store)
}

func TestRegisterAndLogin(t *testing.T) {
	a := newTestAccounts(t)

	user, err := a.Register("Alice", "Alice@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username, "stored lowercased")
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.PasswordHash, "hash never handed back")

	// Registration auto-logs in.
	current, err := a.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "alice", current.Username)

	require.NoError(t, a.Logout())
	current, err = a.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, current)

	// Login works with username or email, any casing.
	byUsername, err := a.Login("ALICE", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := a.Login("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	a := newTestAccounts(t)
	_, err := a.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = a.Register("alice", "other@example.com", "password123")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = a.Register("alice2", "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterValidation(t *testing.T) {
	a := newTestAccounts(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{name: "Bad username", username: "a!", email: "a@example.com", password: "password123"},
		{name: "Bad email", username: "alice", email: "not-an-email", password: "password123"},
		{name: "Short password", username: "alice", email: "a@example.com", password: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(tt.username, tt.email, tt.password)
			assert.Error(t, err)
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	a := newTestAccounts(t)
	_, err := a.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = a.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenPersistence(t *testing.T) {
	a := newTestAccounts(t)

	token, err := a.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, a.SetToken("jwt-token-value"))
	token, err = a.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt-token-value", token)

	require.NoError(t, a.Logout())
	token, err = a.Token()
	require.NoError(t, err)
	assert.Empty(t, token, "logout clears the token")
}
