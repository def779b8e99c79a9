package services

import (
	"context"
	"sort"
	"time"

	"github.com/inkwellhq/inkwell-backend/internal/database"
	"github.com/inkwellhq/inkwell-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func conversationsCollection() *mongo.Collection {
	return database.DB.Collection("conversations")
}

// SendMessage appends a message to the single conversation document for the
// sender/recipient pair, creating it on first contact. Because the
// conversation is keyed by the canonical unordered pair and both participants
// read the same document, one atomic update covers both sides: there is no
// dual-write window where only one participant sees the message.
//
// Content validation (non-empty, length cap, self-send) is the handler's
// responsibility; recipient existence is checked here.
func SendMessage(ctx context.Context, senderID, recipientID primitive.ObjectID, content string) (*models.Message, error) {
	if _, err := FindUserByID(ctx, recipientID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	message := models.Message{
		ID:          primitive.NewObjectID(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Timestamp:   now,
		Read:        false,
	}

	pairKey := models.ConversationPairKey(senderID, recipientID)
	_, err := conversationsCollection().UpdateOne(ctx,
		bson.M{"pair_key": pairKey},
		bson.M{
			"$setOnInsert": bson.M{
				"pair_key":     pairKey,
				"participants": []primitive.ObjectID{senderID, recipientID},
				"created_at":   now,
			},
			"$push": bson.M{"messages": message},
			"$set": bson.M{
				"last_message": models.LastMessage{
					Content:   content,
					Timestamp: now,
					SenderID:  senderID,
				},
				"updated_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListConversations returns the user's conversations sorted by last message
// timestamp descending, each projected with the other participant's summary
// resolved at read time.
func ListConversations(ctx context.Context, userID primitive.ObjectID) ([]models.ConversationView, error) {
	opts := options.Find().SetSort(bson.M{"last_message.timestamp": -1})
	cursor, err := conversationsCollection().Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}

	// Resolve all counterpart users in one query.
	otherIDs := make([]primitive.ObjectID, 0, len(conversations))
	for i := range conversations {
		if other := conversations[i].OtherParticipant(userID); other != primitive.NilObjectID {
			otherIDs = append(otherIDs, other)
		}
	}

	participants := map[primitive.ObjectID]models.ParticipantSummary{}
	if len(otherIDs) > 0 {
		userCursor, err := usersCollection().Find(ctx, bson.M{"_id": bson.M{"$in": otherIDs}})
		if err != nil {
			return nil, err
		}
		defer userCursor.Close(ctx)

		var users []models.User
		if err := userCursor.All(ctx, &users); err != nil {
			return nil, err
		}
		for i := range users {
			participants[users[i].ID] = models.ParticipantSummary{
				ID:       users[i].ID.Hex(),
				Username: users[i].Username,
				Name:     users[i].DisplayName(),
				Avatar:   users[i].DisplayAvatar(),
			}
		}
	}

	views := make([]models.ConversationView, 0, len(conversations))
	for i := range conversations {
		conv := &conversations[i]
		other := conv.OtherParticipant(userID)
		views = append(views, models.ConversationView{
			ID:          conv.ID.Hex(),
			Participant: participants[other],
			Messages:    conv.Messages,
			LastMessage: conv.LastMessage,
		})
	}

	// The index sort already orders these; keep the guarantee even when
	// documents were upserted with equal timestamps.
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].LastMessage.Timestamp.After(views[j].LastMessage.Timestamp)
	})

	return views, nil
}
