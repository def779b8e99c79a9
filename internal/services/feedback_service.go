package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/inkwellhq/inkwell-backend/internal/database"
	"github.com/inkwellhq/inkwell-backend/internal/models"
)

// InsertFeedback stores a feedback record in PostgreSQL and fills in the
// generated id, reference code and timestamps.
func InsertFeedback(fb *models.Feedback) error {
	fb.Reference = uuid.New().String()
	now := time.Now().UTC()
	fb.CreatedAt = now
	fb.UpdatedAt = now

	var userID sql.NullString
	if fb.UserID != "" {
		userID = sql.NullString{String: fb.UserID, Valid: true}
	}

	return database.PostgresDB.QueryRow(`
		INSERT INTO feedbacks (reference, created_at, updated_at, name, email, subject, message, type, status, priority, user_id, is_anonymous, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, fb.Reference, fb.CreatedAt, fb.UpdatedAt, fb.Name, fb.Email, fb.Subject, fb.Message,
		fb.Type, fb.Status, fb.Priority, userID, fb.IsAnonymous, fb.IPAddress).Scan(&fb.ID)
}

// ListFeedbacks returns all feedback records newest-first plus the total count.
func ListFeedbacks() ([]models.Feedback, int64, error) {
	var total int64
	if err := database.PostgresDB.QueryRow(`SELECT COUNT(*) FROM feedbacks`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := database.PostgresDB.Query(`
		SELECT id, reference, created_at, updated_at, name, email, subject, message, type, status, priority, user_id, is_anonymous, response, responded_at, ip_address
		FROM feedbacks
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var feedbacks []models.Feedback
	for rows.Next() {
		var fb models.Feedback
		var userID, response, ipAddress sql.NullString
		var respondedAt sql.NullTime
		if err := rows.Scan(&fb.ID, &fb.Reference, &fb.CreatedAt, &fb.UpdatedAt, &fb.Name, &fb.Email,
			&fb.Subject, &fb.Message, &fb.Type, &fb.Status, &fb.Priority,
			&userID, &fb.IsAnonymous, &response, &respondedAt, &ipAddress); err != nil {
			return nil, 0, err
		}
		fb.UserID = userID.String
		fb.Response = response.String
		fb.IPAddress = ipAddress.String
		if respondedAt.Valid {
			t := respondedAt.Time
			fb.RespondedAt = &t
		}
		feedbacks = append(feedbacks, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return feedbacks, total, nil
}

// FeedbackUpdate carries the admin-mutable fields. Nil means unchanged.
type FeedbackUpdate struct {
	Status   *string
	Priority *string
	Response *string
}

// UpdateFeedback applies status/priority/response changes. Setting a response
// stamps responded_at and moves status to "responded" unless one was given.
func UpdateFeedback(id string, update FeedbackUpdate) error {
	now := time.Now().UTC()

	status := sql.NullString{}
	if update.Status != nil {
		status = sql.NullString{String: *update.Status, Valid: true}
	}
	priority := sql.NullString{}
	if update.Priority != nil {
		priority = sql.NullString{String: *update.Priority, Valid: true}
	}
	response := sql.NullString{}
	if update.Response != nil {
		response = sql.NullString{String: *update.Response, Valid: true}
	}

	res, err := database.PostgresDB.Exec(`
		UPDATE feedbacks SET
			status = CASE
				WHEN $2::varchar IS NOT NULL THEN $2
				WHEN $4::text IS NOT NULL THEN 'responded'
				ELSE status
			END,
			priority = COALESCE($3, priority),
			response = COALESCE($4, response),
			responded_at = CASE WHEN $4::text IS NOT NULL THEN $5 ELSE responded_at END,
			updated_at = $5
		WHERE id = $1
	`, id, status, priority, response, now)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFeedback removes a feedback record.
func DeleteFeedback(id string) error {
	res, err := database.PostgresDB.Exec(`DELETE FROM feedbacks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
