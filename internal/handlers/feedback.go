package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/inkwellhq/inkwell-backend/internal/models"
	"github.com/inkwellhq/inkwell-backend/internal/services"
	"github.com/inkwellhq/inkwell-backend/pkg/clientip"
	"github.com/inkwellhq/inkwell-backend/pkg/utils"
)

type SubmitFeedbackRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	Type        string `json:"type"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type SubmitFeedbackResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Reference string `json:"reference"`
}

// SubmitFeedback accepts feedback from anyone; a valid bearer token links the
// record to the sender unless they asked to stay anonymous.
func SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		writeMessage(w, http.StatusBadRequest, "Name, email, subject and message are required")
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Name) > models.MaxFeedbackNameLength {
		writeMessage(w, http.StatusBadRequest, "Name too long (max 100 characters)")
		return
	}
	if len(req.Subject) > models.MaxFeedbackSubjectLength {
		writeMessage(w, http.StatusBadRequest, "Subject too long (max 200 characters)")
		return
	}
	if len(req.Message) > models.MaxFeedbackMessageLength {
		writeMessage(w, http.StatusBadRequest, "Message too long (max 2000 characters)")
		return
	}
	if req.Type == "" {
		req.Type = models.FeedbackTypeGeneral
	}
	if !models.ValidFeedbackType(req.Type) {
		writeMessage(w, http.StatusBadRequest, "Invalid feedback type")
		return
	}

	fb := &models.Feedback{
		Name:        req.Name,
		Email:       utils.NormalizeEmail(req.Email),
		Subject:     req.Subject,
		Message:     req.Message,
		Type:        req.Type,
		Status:      models.FeedbackStatusPending,
		Priority:    models.FeedbackPriorityMedium,
		IsAnonymous: req.IsAnonymous,
		IPAddress:   clientip.RealClientIP(r),
	}

	// Optional identity: a valid token attaches the user id, but feedback
	// never requires one.
	if !req.IsAnonymous {
		if token := extractBearerToken(r.Header.Get("Authorization")); token != "" {
			if claims, err := services.VerifyToken(token); err == nil {
				fb.UserID = claims.UserID
			}
		}
	}

	if err := services.InsertFeedback(fb); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitFeedbackResponse{
		Success:   true,
		Message:   "Feedback submitted successfully",
		Reference: fb.Reference,
	})
}

type FeedbackListResponse struct {
	Success   bool              `json:"success"`
	Feedbacks []models.Feedback `json:"feedbacks"`
	Total     int64             `json:"total"`
}

// GetFeedbacks returns every feedback record, newest first.
func GetFeedbacks(w http.ResponseWriter, r *http.Request) {
	if authenticate(w, r) == nil {
		return
	}

	feedbacks, total, err := services.ListFeedbacks()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}

	writeJSON(w, http.StatusOK, FeedbackListResponse{
		Success:   true,
		Feedbacks: feedbacks,
		Total:     total,
	})
}

type UpdateFeedbackRequest struct {
	Status   *string `json:"status,omitempty"`
	Priority *string `json:"priority,omitempty"`
	Response *string `json:"response,omitempty"`
}

// UpdateFeedback changes a feedback record's status, priority or response.
func UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	if authenticate(w, r) == nil {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "Feedback ID is required")
		return
	}

	var req UpdateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Status == nil && req.Priority == nil && req.Response == nil {
		writeMessage(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if req.Status != nil && !models.ValidFeedbackStatus(*req.Status) {
		writeMessage(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if req.Priority != nil && !models.ValidFeedbackPriority(*req.Priority) {
		writeMessage(w, http.StatusBadRequest, "Invalid priority")
		return
	}

	err := services.UpdateFeedback(id, services.FeedbackUpdate{
		Status:   req.Status,
		Priority: req.Priority,
		Response: req.Response,
	})
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "Feedback not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Feedback updated successfully")
}

// DeleteFeedback removes a feedback record.
func DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	if authenticate(w, r) == nil {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "Feedback ID is required")
		return
	}

	err := services.DeleteFeedback(id)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "Feedback not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Feedback deleted successfully")
}
