package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell-backend/internal/models"
	"github.com/inkwellhq/inkwell-backend/internal/services"
)

const (
	searchResultLimit = 20
	listAllLimit      = 100
)

// SearchResult is the reduced public projection returned by user search.
type SearchResult struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	Name         string    `json:"name,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SearchResponse struct {
	Success bool           `json:"success"`
	Users   []SearchResult `json:"users"`
}

// SearchUsers handles GET /api/search/users. With all=true it lists up to 100
// users newest-first; otherwise a non-empty query is required and matched
// case-insensitively across username, name, fullName and email.
func SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	listAll := r.URL.Query().Get("all") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var (
		users []models.User
		err   error
	)
	if listAll {
		users, err = services.ListUsers(ctx, listAllLimit)
	} else {
		if strings.TrimSpace(query) == "" {
			writeMessage(w, http.StatusBadRequest, "Search query is required")
			return
		}
		users, err = services.SearchUsers(ctx, query, searchResultLimit)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	results := make([]SearchResult, 0, len(users))
	for i := range users {
		u := &users[i]
		results = append(results, SearchResult{
			ID:           u.ID.Hex(),
			Username:     u.Username,
			Email:        u.Email,
			ProfilePhoto: u.DisplayAvatar(),
			Name:         u.DisplayName(),
			Bio:          u.Bio,
			Location:     u.Location,
			CreatedAt:    u.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, SearchResponse{Success: true, Users: results})
}
