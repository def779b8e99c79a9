package services

import (
	"errors"
	"testing"

	"github.com/inkwellhq/inkwell-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIdentityConflictFilter(t *testing.T) {
	t.Run("Nothing to check", func(t *testing.T) {
		assert.Nil(t, identityConflictFilter("", "", nil))
	})

	t.Run("Username and email without exclusion", func(t *testing.T) {
		filter := identityConflictFilter("alice", "alice@example.com", nil)
		require.NotNil(t, filter)
		assert.NotContains(t, filter, "_id")

		or, ok := filter["$or"].([]bson.M)
		require.True(t, ok)
		assert.Equal(t, []bson.M{
			{"username": "alice"},
			{"email": "alice@example.com"},
		}, or)
	})

	t.Run("Exclusion skips the caller's own record", func(t *testing.T) {
		id, err := primitive.ObjectIDFromHex("507f1f77bcf86cd799439011")
		require.NoError(t, err)

		filter := identityConflictFilter("", "alice@example.com", &id)
		require.NotNil(t, filter)

		// Updating the email to its current value must not match the
		// caller's own record, so the filter excludes it by id.
		assert.Equal(t, bson.M{"$ne": id}, filter["_id"])
		assert.Equal(t, []bson.M{{"email": "alice@example.com"}}, filter["$or"])
	})
}

func TestIdentityConflictField(t *testing.T) {
	existing := &models.User{Username: "alice", Email: "alice@example.com"}

	ce := identityConflict(existing, "alice@example.com")
	assert.Equal(t, "email", ce.Field)
	assert.Equal(t, "Email already registered", ce.Error())

	// A match found without an email clause collided on the username.
	ce = identityConflict(existing, "")
	assert.Equal(t, "username", ce.Field)
	assert.Equal(t, "Username already taken", ce.Error())

	// Both fields requested but only the username collided.
	ce = identityConflict(existing, "bob@example.com")
	assert.Equal(t, "username", ce.Field)
}

func TestDuplicateKeyField(t *testing.T) {
	ce := duplicateKeyField(errors.New(`write exception: E11000 duplicate key error collection: inkwell.users index: idx_email_unique dup key: { email: "alice@example.com" }`))
	assert.Equal(t, "email", ce.Field)

	ce = duplicateKeyField(errors.New(`write exception: E11000 duplicate key error collection: inkwell.users index: idx_username_unique dup key: { username: "alice" }`))
	assert.Equal(t, "username", ce.Field)
}
