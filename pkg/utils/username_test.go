package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "Valid simple", username: "alice", wantErr: false},
		{name: "Valid with underscore and digits", username: "alice_99", wantErr: false},
		{name: "Valid minimum length", username: "abc", wantErr: false},
		{name: "Valid maximum length", username: strings.Repeat("a", 30), wantErr: false},
		{name: "Too short", username: "ab", wantErr: true},
		{name: "Too long", username: strings.Repeat("a", 31), wantErr: true},
		{name: "Empty", username: "", wantErr: true},
		{name: "Contains space", username: "ali ce", wantErr: true},
		{name: "Contains dash", username: "ali-ce", wantErr: true},
		{name: "Contains at sign", username: "alice@home", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "Valid", email: "alice@example.com", wantErr: false},
		{name: "Valid with plus", email: "alice+blog@example.co.uk", wantErr: false},
		{name: "Missing at", email: "alice.example.com", wantErr: true},
		{name: "Missing domain dot", email: "alice@example", wantErr: true},
		{name: "Contains space", email: "al ice@example.com", wantErr: true},
		{name: "Empty", email: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("  Alice "))
	assert.Equal(t, "alice_99", NormalizeUsername("ALICE_99"))
	assert.Equal(t, "alice@example.com", NormalizeEmail(" Alice@Example.COM "))
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidateUsername("ab")
	assert.EqualError(t, err, "Username must be at least 3 characters")

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "username", vErr.Field)
}
