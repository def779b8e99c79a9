package models

import (
	"time"
)

// Feedback type, status and priority enums. Stored in PostgreSQL as a
// standalone record; the optional UserID links to a Mongo user by hex id.
const (
	FeedbackTypeFeedback       = "feedback"
	FeedbackTypeBugReport      = "bug-report"
	FeedbackTypeFeatureRequest = "feature-request"
	FeedbackTypeGeneral        = "general"

	FeedbackStatusPending   = "pending"
	FeedbackStatusRead      = "read"
	FeedbackStatusResponded = "responded"
	FeedbackStatusResolved  = "resolved"

	FeedbackPriorityLow    = "low"
	FeedbackPriorityMedium = "medium"
	FeedbackPriorityHigh   = "high"
)

// Field caps checked at validation time. The PostgreSQL columns carry the
// same limits, so anything longer would fail the insert anyway.
const (
	MaxFeedbackNameLength    = 100
	MaxFeedbackSubjectLength = 200
	MaxFeedbackMessageLength = 2000
)

// ValidFeedbackType reports whether t is a known feedback type.
func ValidFeedbackType(t string) bool {
	switch t {
	case FeedbackTypeFeedback, FeedbackTypeBugReport, FeedbackTypeFeatureRequest, FeedbackTypeGeneral:
		return true
	}
	return false
}

// ValidFeedbackStatus reports whether s is a known feedback status.
func ValidFeedbackStatus(s string) bool {
	switch s {
	case FeedbackStatusPending, FeedbackStatusRead, FeedbackStatusResponded, FeedbackStatusResolved:
		return true
	}
	return false
}

// ValidFeedbackPriority reports whether p is a known feedback priority.
func ValidFeedbackPriority(p string) bool {
	switch p {
	case FeedbackPriorityLow, FeedbackPriorityMedium, FeedbackPriorityHigh:
		return true
	}
	return false
}

type Feedback struct {
	ID          string     `json:"id"`
	Reference   string     `json:"reference"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	UserID      string     `json:"userId,omitempty"`
	IsAnonymous bool       `json:"isAnonymous"`
	Response    string     `json:"response,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	IPAddress   string     `json:"-"`
}
