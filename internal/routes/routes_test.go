package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// The legacy /api/user/* and /api/messages/send paths must stay routable
// alongside their current counterparts. Each pair hits the same handler, so
// the rejection it produces before any database access must match too.
func TestLegacyPathAliases(t *testing.T) {
	r := chi.NewRouter()
	SetupRoutes(r)

	tests := []struct {
		name           string
		method         string
		paths          []string
		expectedStatus int
	}{
		{
			name:           "Get by username without a username",
			method:         "GET",
			paths:          []string{"/api/user/getByUsername"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Search without a query",
			method:         "GET",
			paths:          []string{"/api/user/search", "/api/search/users"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Stats without a user id",
			method:         "GET",
			paths:          []string{"/api/user/stats", "/api/users/stats"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Profile update without authentication",
			method:         "PUT",
			paths:          []string{"/api/user/update", "/api/users/profile"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Send message without authentication",
			method:         "POST",
			paths:          []string{"/api/messages/send", "/api/messages"},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range tt.paths {
				req := httptest.NewRequest(tt.method, path, strings.NewReader("{}"))
				if tt.method != "GET" {
					req.Header.Set("Content-Type", "application/json")
				}
				rec := httptest.NewRecorder()
				r.ServeHTTP(rec, req)
				assert.Equal(t, tt.expectedStatus, rec.Code, path)
			}
		})
	}
}
