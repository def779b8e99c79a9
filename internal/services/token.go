package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenDuration is 7 days
const TokenDuration = 7 * 24 * time.Hour

var jwtSecret string

// InitTokenService sets the signing secret used for session tokens.
// Called once from main during startup.
func InitTokenService(secret string) {
	jwtSecret = secret
}

// TokenConfigured reports whether a signing secret is set. Handlers check
// this up front so a missing secret fails before any database write.
func TokenConfigured() bool {
	return jwtSecret != ""
}

// TokenClaims is the identity embedded in a session token.
type TokenClaims struct {
	UserID   string
	Username string
	Email    string
}

// GenerateToken issues a signed HS256 session token embedding user id,
// username and email with a 7-day expiry.
func GenerateToken(userID, username, email string) (string, error) {
	if jwtSecret == "" {
		return "", ErrMissingJWTSecret
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"userId":   userID,
		"username": username,
		"email":    email,
		"iat":      now.Unix(),
		"exp":      now.Add(TokenDuration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// VerifyToken parses and validates a session token, returning its claims.
// Any parse, signature or expiry failure yields ErrInvalidToken.
func VerifyToken(tokenString string) (*TokenClaims, error) {
	if jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["userId"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)

	return &TokenClaims{
		UserID:   userID,
		Username: username,
		Email:    email,
	}, nil
}
