package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inkwellhq/inkwell-backend/internal/models"
	"github.com/inkwellhq/inkwell-backend/internal/services"
	"github.com/inkwellhq/inkwell-backend/pkg/utils"
)

// ProfileStats is the rollup embedded in a public profile response.
type ProfileStats struct {
	TotalPosts    int `json:"totalPosts"`
	TotalLikes    int `json:"totalLikes"`
	TotalComments int `json:"totalComments"`
}

// PublicProfile is the projection returned by getByUsername: public fields
// only, password and server-only fields excluded.
type PublicProfile struct {
	ID          string             `json:"id"`
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	Name        string             `json:"name,omitempty"`
	Avatar      string             `json:"avatar,omitempty"`
	Bio         string             `json:"bio"`
	Location    string             `json:"location"`
	Website     string             `json:"website,omitempty"`
	JoinDate    time.Time          `json:"joinDate"`
	SocialLinks models.SocialLinks `json:"socialLinks"`
	Stats       ProfileStats       `json:"stats"`
}

type ProfileResponse struct {
	Success bool          `json:"success"`
	User    PublicProfile `json:"user"`
	Posts   []models.Post `json:"posts"`
}

// GetByUsername returns a user's public profile with their published posts
// (newest first) and rollup counts.
func GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		// Legacy alias /api/user/getByUsername passes it as a query param.
		username = strings.TrimSpace(r.URL.Query().Get("username"))
	}
	if username == "" {
		writeMessage(w, http.StatusBadRequest, "Username is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := services.FindUserByUsername(ctx, username)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	posts, err := services.PostsByAuthor(ctx, user.ID, 0)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	totalLikes, totalComments := 0, 0
	for i := range posts {
		totalLikes += len(posts[i].Likes)
		totalComments += len(posts[i].Comments)
	}

	bio := user.Bio
	if bio == "" {
		bio = "No bio available"
	}
	location := user.Location
	if location == "" {
		location = "Location not specified"
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		Success: true,
		User: PublicProfile{
			ID:          user.ID.Hex(),
			Username:    user.Username,
			Email:       user.Email,
			Name:        user.DisplayName(),
			Avatar:      user.DisplayAvatar(),
			Bio:         bio,
			Location:    location,
			Website:     user.Website,
			JoinDate:    user.CreatedAt,
			SocialLinks: user.SocialLinks,
			Stats: ProfileStats{
				TotalPosts:    len(posts),
				TotalLikes:    totalLikes,
				TotalComments: totalComments,
			},
		},
		Posts: posts,
	})
}

// UpdateProfileRequest is a partial patch; absent fields stay unchanged.
// UserID is the fallback for clients without a bearer token.
type UpdateProfileRequest struct {
	UserID         string              `json:"userId,omitempty"`
	Username       *string             `json:"username,omitempty"`
	Email          *string             `json:"email,omitempty"`
	Name           *string             `json:"name,omitempty"`
	Bio            *string             `json:"bio,omitempty"`
	ProfilePicture *string             `json:"profilePicture,omitempty"`
	ProfilePhoto   *string             `json:"profilePhoto,omitempty"`
	Avatar         *string             `json:"avatar,omitempty"`
	Location       *string             `json:"location,omitempty"`
	Website        *string             `json:"website,omitempty"`
	Preferences    *models.Preferences `json:"preferences,omitempty"`
}

type UpdateProfileResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// UpdateProfile applies a partial profile update for the authenticated user.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Bearer token preferred; body userId kept for clients running against
	// the local mirror.
	var callerID string
	if token := extractBearerToken(r.Header.Get("Authorization")); token != "" {
		claims, err := services.VerifyToken(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		callerID = claims.UserID
	} else if req.UserID != "" {
		callerID = req.UserID
	} else {
		writeMessage(w, http.StatusUnauthorized, "No authentication provided")
		return
	}

	userID, ok := parseObjectID(w, callerID, "user ID")
	if !ok {
		return
	}

	if req.Username != nil {
		if err := utils.ValidateUsername(*req.Username); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Email != nil {
		if err := utils.ValidateEmail(*req.Email); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Name != nil && len(*req.Name) > 100 {
		writeMessage(w, http.StatusBadRequest, "Name must be under 100 characters")
		return
	}
	if req.Bio != nil && len(*req.Bio) > 500 {
		writeMessage(w, http.StatusBadRequest, "Bio must be under 500 characters")
		return
	}
	if req.Location != nil && len(*req.Location) > 100 {
		writeMessage(w, http.StatusBadRequest, "Location must be under 100 characters")
		return
	}
	if req.Website != nil && len(*req.Website) > 200 {
		writeMessage(w, http.StatusBadRequest, "Website must be under 200 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := services.UpdateProfile(ctx, userID, services.ProfilePatch{
		Username:       req.Username,
		Email:          req.Email,
		Name:           req.Name,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		ProfilePhoto:   req.ProfilePhoto,
		Avatar:         req.Avatar,
		Location:       req.Location,
		Website:        req.Website,
		Preferences:    req.Preferences,
	})
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Stats cache may now carry a stale username/avatar
	services.Cache.Delete(services.CacheKey("stats", userID.Hex()))

	writeJSON(w, http.StatusOK, UpdateProfileResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	})
}

type StatsResponse struct {
	Success bool                `json:"success"`
	Stats   *services.UserStats `json:"stats"`
}

// GetStats returns per-user rollup counts derived on demand, cached briefly
// in Redis.
func GetStats(w http.ResponseWriter, r *http.Request) {
	userIDHex := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userIDHex == "" {
		writeMessage(w, http.StatusBadRequest, "User ID is required")
		return
	}

	userID, ok := parseObjectID(w, userIDHex, "user ID")
	if !ok {
		return
	}

	cacheKey := services.CacheKey("stats", userID.Hex())
	var cached services.UserStats
	if hit, _ := services.Cache.Get(cacheKey, &cached); hit {
		writeJSON(w, http.StatusOK, StatsResponse{Success: true, Stats: &cached})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := services.ComputeUserStats(ctx, userID)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	services.Cache.Set(cacheKey, stats)

	writeJSON(w, http.StatusOK, StatsResponse{Success: true, Stats: stats})
}
