package services

import (
	"errors"
	"fmt"
)

// Sentinel errors used across services. Handlers map these to HTTP statuses:
// ErrNotFound → 404, ErrInvalidCredentials/ErrInvalidToken → 401,
// ErrMissingJWTSecret → 500, ConflictError → 409.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingJWTSecret   = errors.New("server configuration error: JWT_SECRET is required")
)

// ConflictError reports a duplicate unique field, naming which field collided.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	switch e.Field {
	case "username":
		return "Username already taken"
	case "email":
		return "Email already registered"
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
