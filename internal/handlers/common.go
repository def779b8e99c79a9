package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/inkwellhq/inkwell-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageResponse is the bare {success, message} envelope.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{
		Success: status < 400,
		Message: message,
	})
}

// writeServiceError maps service-level errors to HTTP statuses. Unexpected
// errors are logged and surfaced as a generic internal error.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrMissingJWTSecret):
		writeMessage(w, http.StatusInternalServerError, "Server configuration error: JWT_SECRET is required")
	case services.IsConflict(err):
		writeMessage(w, http.StatusConflict, err.Error())
	default:
		log.Printf("ERROR: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// extractBearerToken pulls the token out of an "Authorization: Bearer x"
// header value; returns "" when absent or malformed.
func extractBearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authenticate verifies the request's bearer token and returns its claims.
// On failure it writes a 401 response and returns nil.
func authenticate(w http.ResponseWriter, r *http.Request) *services.TokenClaims {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return nil
	}

	claims, err := services.VerifyToken(token)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return nil
	}
	return claims
}

// parseObjectID converts a hex id, writing a 400 response on failure.
func parseObjectID(w http.ResponseWriter, hex, field string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid "+field+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}
