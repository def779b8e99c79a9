package database

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var DB *mongo.Database

func Connect(mongoURI string) error {
	// Use longer timeout for Atlas connections
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	log.Printf("Attempting to connect to MongoDB...")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	err = client.Ping(pingCtx, nil)
	if err != nil {
		client.Disconnect(context.Background())
		return err
	}

	Client = client

	// Extract database name from URI or use default
	dbName := "inkwell"
	if mongoURI != "" {
		parts := strings.Split(mongoURI, "/")
		if len(parts) > 3 {
			dbPart := strings.Split(parts[len(parts)-1], "?")[0]
			if dbPart != "" {
				dbName = dbPart
			}
		}
	}

	DB = client.Database(dbName)

	log.Println("✅ Connected to MongoDB")
	return nil
}

// EnsureIndexes creates the unique and query indexes the stores rely on.
// The unique indexes on users.username and users.email are the authoritative
// duplicate guard; the application-level pre-checks are only a fast path.
func EnsureIndexes(ctx context.Context) error {
	users := DB.Collection("users")
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("idx_username_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_users_created"),
		},
	}
	if _, err := users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return err
	}

	posts := DB.Collection("posts")
	postIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "author_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_posts_author_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_created"),
		},
		{
			Keys:    bson.D{{Key: "saves", Value: 1}},
			Options: options.Index().SetName("idx_posts_saves"),
		},
	}
	if _, err := posts.Indexes().CreateMany(ctx, postIndexes); err != nil {
		return err
	}

	conversations := DB.Collection("conversations")
	convIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetName("idx_conv_pair_unique").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "participants", Value: 1},
				{Key: "last_message.timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_conv_participant_last"),
		},
	}
	if _, err := conversations.Indexes().CreateMany(ctx, convIndexes); err != nil {
		return err
	}

	return nil
}

func Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return Client.Disconnect(ctx)
}
