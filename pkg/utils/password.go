package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost factor used for new password hashes.
const PasswordHashCost = 12

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash
func VerifyPassword(password, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
