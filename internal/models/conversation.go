package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxMessageLength caps direct message content.
const MaxMessageLength = 1000

// Message is embedded in a conversation's messages array. The same record is
// visible to both participants.
type Message struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"senderId"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipientId"`
	Content     string             `bson:"content" json:"content"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	Read        bool               `bson:"read" json:"read"`
}

// LastMessage is the denormalized list-view cache refreshed on every send.
type LastMessage struct {
	Content   string             `bson:"content" json:"content"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	SenderID  primitive.ObjectID `bson:"sender_id" json:"senderId"`
}

// Conversation is stored once per participant pair in the "conversations"
// collection, keyed by the canonical unordered pair of participant ids
// (PairKey). A single document update appends the message and refreshes
// LastMessage, so both participants always see the same state.
type Conversation struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PairKey      string               `bson:"pair_key" json:"-"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	Messages     []Message            `bson:"messages" json:"messages"`
	LastMessage  LastMessage          `bson:"last_message" json:"lastMessage"`
	CreatedAt    time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updatedAt"`
}

// ParticipantSummary is the other participant's projection in the
// conversation list view.
type ParticipantSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// ConversationView is what listConversations returns for each conversation.
type ConversationView struct {
	ID          string             `json:"id"`
	Participant ParticipantSummary `json:"participant"`
	Messages    []Message          `json:"messages"`
	LastMessage LastMessage        `json:"lastMessage"`
}

// PairKey returns the canonical unordered pair key for two user ids: the two
// hex ids sorted lexicographically and joined with ":". Both orderings of the
// same pair produce the same key.
func ConversationPairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if ah > bh {
		ah, bh = bh, ah
	}
	return ah + ":" + bh
}

// OtherParticipant returns the participant that is not the given user.
func (c *Conversation) OtherParticipant(userID primitive.ObjectID) primitive.ObjectID {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return primitive.NilObjectID
}
