package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestConversationPairKeySymmetric(t *testing.T) {
	a, err := primitive.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	b, err := primitive.ObjectIDFromHex("507f191e810c19729de860ea")
	require.NoError(t, err)

	assert.Equal(t, ConversationPairKey(a, b), ConversationPairKey(b, a))
	assert.Equal(t, "507f191e810c19729de860ea:507f1f77bcf86cd799439011", ConversationPairKey(a, b))
}

func TestConversationPairKeyDistinctPairs(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	assert.NotEqual(t, ConversationPairKey(a, b), ConversationPairKey(a, c))
	assert.NotEqual(t, ConversationPairKey(a, b), ConversationPairKey(b, c))
}

func TestOtherParticipant(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	conv := &Conversation{Participants: []primitive.ObjectID{a, b}}

	assert.Equal(t, b, conv.OtherParticipant(a))
	assert.Equal(t, a, conv.OtherParticipant(b))

	stranger := primitive.NewObjectID()
	assert.NotEqual(t, primitive.NilObjectID, conv.OtherParticipant(stranger))
}
