package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell-backend/internal/models"
	"github.com/inkwellhq/inkwell-backend/internal/services"
	"github.com/inkwellhq/inkwell-backend/pkg/utils"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthResponse carries the created/authenticated user (password excluded via
// the model's json tags) and the session token.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

// Register handles user registration
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(req.Password) < utils.MinPasswordLength {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	// Fail before any write if the signing secret is missing
	if !services.TokenConfigured() {
		writeServiceError(w, services.ErrMissingJWTSecret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	username := utils.NormalizeUsername(req.Username)
	email := utils.NormalizeEmail(req.Email)

	// Fast-path duplicate check; the unique indexes are the authoritative
	// guard and CreateUser reports the same conflict if we lose the race.
	if err := services.CheckIdentityAvailable(ctx, username, email, nil); err != nil {
		writeServiceError(w, err)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = username
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Password:    hashedPassword,
		FullName:    fullName,
		Avatar:      services.DefaultAvatarURL(username),
		Preferences: models.DefaultPreferences(),
	}

	if err := services.CreateUser(ctx, user); err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := services.GenerateToken(user.ID.Hex(), user.Username, user.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User registered successfully",
		User:    user,
		Token:   token,
	})
}

// Login handles user login by username or email. Lookup and password
// failures produce the same generic message so callers cannot probe which
// accounts exist.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Identifier == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username/email and password are required")
		return
	}

	if !services.TokenConfigured() {
		writeServiceError(w, services.ErrMissingJWTSecret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := services.FindUserByIdentifier(ctx, req.Identifier)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := services.TouchLastLogin(ctx, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	now := time.Now().UTC()
	user.LastLogin = &now

	token, err := services.GenerateToken(user.ID.Hex(), user.Username, user.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

// Logout is stateless: tokens expire on their own, the client just drops its
// copy.
func Logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// GetMe returns the profile of the authenticated user.
func GetMe(w http.ResponseWriter, r *http.Request) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}

	userID, ok := parseObjectID(w, claims.UserID, "user ID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := services.FindUserByID(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "OK",
		User:    user,
	})
}
