package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	InitTokenService("test-secret-key")
	defer InitTokenService("")

	token, err := GenerateToken("507f1f77bcf86cd799439011", "alice", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	InitTokenService("test-secret-key")
	defer InitTokenService("")

	tests := []struct {
		name  string
		token string
	}{
		{name: "Empty", token: ""},
		{name: "Not a JWT", token: "definitely-not-a-jwt"},
		{name: "Truncated", token: "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VySWQiOiJ4In0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := VerifyToken(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	InitTokenService("secret-one")
	token, err := GenerateToken("507f1f77bcf86cd799439011", "alice", "alice@example.com")
	require.NoError(t, err)

	InitTokenService("secret-two")
	defer InitTokenService("")

	claims, err := VerifyToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceUnconfigured(t *testing.T) {
	InitTokenService("")

	assert.False(t, TokenConfigured())

	_, err := GenerateToken("id", "user", "user@example.com")
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	_, err = VerifyToken("anything")
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	InitTokenService("test-secret-key")
	assert.True(t, TokenConfigured())
	InitTokenService("")
}

func TestDefaultAvatarURL(t *testing.T) {
	assert.Equal(t,
		"https://api.dicebear.com/7.x/avataaars/svg?seed=alice",
		DefaultAvatarURL("alice"))

	// Deterministic: same input, same URL.
	assert.Equal(t, DefaultAvatarURL("bob_99"), DefaultAvatarURL("bob_99"))
}
