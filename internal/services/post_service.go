package services

import (
	"context"
	"time"

	"github.com/inkwellhq/inkwell-backend/internal/database"
	"github.com/inkwellhq/inkwell-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func postsCollection() *mongo.Collection {
	return database.DB.Collection("posts")
}

// CreatePost inserts a post, snapshotting the author's current username and
// avatar into it, and increments the author's denormalized posts_count.
func CreatePost(ctx context.Context, author *models.User, title, content, image string) (*models.Post, error) {
	now := time.Now().UTC()
	post := &models.Post{
		CreatedAt:      now,
		UpdatedAt:      now,
		Title:          title,
		Content:        content,
		Image:          image,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		AuthorAvatar:   author.DisplayAvatar(),
		Likes:          []string{},
		Saves:          []string{},
		Comments:       []models.Comment{},
	}

	res, err := postsCollection().InsertOne(ctx, post)
	if err != nil {
		return nil, err
	}
	post.ID = res.InsertedID.(primitive.ObjectID)

	_, err = usersCollection().UpdateOne(ctx, bson.M{"_id": author.ID}, bson.M{
		"$inc": bson.M{"posts_count": 1},
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// GetPost returns a single post, or ErrNotFound.
func GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := postsCollection().FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetAllPosts returns all posts, newest first.
func GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return findPosts(ctx, bson.M{}, 0)
}

// PostsByAuthor returns the author's posts newest first, capped at limit when
// limit > 0.
func PostsByAuthor(ctx context.Context, authorID primitive.ObjectID, limit int64) ([]models.Post, error) {
	return findPosts(ctx, bson.M{"author_id": authorID}, limit)
}

// SavedPosts returns posts whose save set contains the user id.
func SavedPosts(ctx context.Context, userID string) ([]models.Post, error) {
	return findPosts(ctx, bson.M{"saves": userID}, 0)
}

func findPosts(ctx context.Context, filter bson.M, limit int64) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := postsCollection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostPatch holds the mutable post fields. Author-only enforcement is the
// caller's responsibility; this operation just applies the patch.
type PostPatch struct {
	Title   *string
	Content *string
	Image   *string
}

// UpdatePost applies a partial update and returns the updated post.
func UpdatePost(ctx context.Context, postID primitive.ObjectID, patch PostPatch) (*models.Post, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}

	after := options.After
	var updated models.Post
	err := postsCollection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePost removes a post and decrements the author's posts_count.
func DeletePost(ctx context.Context, postID primitive.ObjectID) error {
	var post models.Post
	err := postsCollection().FindOneAndDelete(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	_, err = usersCollection().UpdateOne(ctx, bson.M{"_id": post.AuthorID}, bson.M{
		"$inc": bson.M{"posts_count": -1},
	})
	return err
}

// ToggleLike flips the user's membership in the post's like set: present ids
// are removed, absent ids inserted. Returns the updated post.
func ToggleLike(ctx context.Context, postID primitive.ObjectID, userID string) (*models.Post, error) {
	return toggleMembership(ctx, postID, userID, "likes")
}

// ToggleSave flips the user's membership in the post's save set.
func ToggleSave(ctx context.Context, postID primitive.ObjectID, userID string) (*models.Post, error) {
	return toggleMembership(ctx, postID, userID, "saves")
}

func toggleMembership(ctx context.Context, postID primitive.ObjectID, userID, field string) (*models.Post, error) {
	post, err := GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	present := false
	switch field {
	case "likes":
		present = post.HasLike(userID)
	case "saves":
		present = post.HasSave(userID)
	}

	var update bson.M
	if present {
		update = bson.M{"$pull": bson.M{field: userID}}
	} else {
		update = bson.M{"$addToSet": bson.M{field: userID}} // Avoids duplicates
	}

	after := options.After
	var updated models.Post
	err = postsCollection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		update,
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddComment appends a comment with a fresh id and timestamp. The author
// username is a snapshot taken now.
func AddComment(ctx context.Context, postID, authorID primitive.ObjectID, authorUsername, content string) (*models.Comment, error) {
	comment := models.Comment{
		ID:             primitive.NewObjectID(),
		PostID:         postID,
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	res, err := postsCollection().UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": comment.CreatedAt},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &comment, nil
}

// DeleteComment removes an embedded comment. Two-party authority (comment
// author or post author) is checked by the handler before calling this.
func DeleteComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := postsCollection().UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}
