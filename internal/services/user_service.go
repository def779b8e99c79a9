package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell-backend/internal/database"
	"github.com/inkwellhq/inkwell-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func usersCollection() *mongo.Collection {
	return database.DB.Collection("users")
}

// CreateUser inserts a new user. Username and email must already be
// normalized to lowercase. The unique indexes are the authoritative duplicate
// guard; a duplicate-key error is translated to a ConflictError naming the
// colliding field.
func CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}

	res, err := usersCollection().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyField(err)
		}
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// duplicateKeyField maps a Mongo duplicate-key error to the colliding field
// based on the index name embedded in the error message.
func duplicateKeyField(err error) *ConflictError {
	msg := err.Error()
	if strings.Contains(msg, "idx_email_unique") || strings.Contains(msg, "email") {
		return &ConflictError{Field: "email"}
	}
	return &ConflictError{Field: "username"}
}

// CheckIdentityAvailable is the fast-path pre-check before insert. It reports
// a ConflictError if the normalized username or email is already taken,
// optionally excluding one user id (for profile updates).
func CheckIdentityAvailable(ctx context.Context, username, email string, excludeID *primitive.ObjectID) error {
	filter := identityConflictFilter(username, email, excludeID)
	if filter == nil {
		return nil
	}

	var existing models.User
	err := usersCollection().FindOne(ctx, filter).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return err
	}
	return identityConflict(&existing, email)
}

// identityConflictFilter builds the duplicate-identity query. A non-nil
// excludeID adds a $ne clause so a user updating to their own current
// username or email never matches their own record. Returns nil when there
// is nothing to check.
func identityConflictFilter(username, email string, excludeID *primitive.ObjectID) bson.M {
	var or []bson.M
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil
	}

	filter := bson.M{"$or": or}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	return filter
}

// identityConflict names the colliding field for a matched record.
func identityConflict(existing *models.User, email string) *ConflictError {
	if email != "" && existing.Email == email {
		return &ConflictError{Field: "email"}
	}
	return &ConflictError{Field: "username"}
}

// FindUserByID returns the user with the given id, or ErrNotFound.
func FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := usersCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByIdentifier looks a user up by normalized username or email.
// Used by login; callers must not reveal which lookup failed.
func FindUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var user models.User
	err := usersCollection().FindOne(ctx, bson.M{
		"$or": []bson.M{
			{"username": identifier},
			{"email": identifier},
		},
	}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByUsername does a case-insensitive exact username lookup.
func FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	pattern := "^" + regexp.QuoteMeta(strings.TrimSpace(username)) + "$"

	var user models.User
	err := usersCollection().FindOne(ctx, bson.M{
		"username": bson.M{"$regex": pattern, "$options": "i"},
	}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// TouchLastLogin stamps last_login on a successful login.
func TouchLastLogin(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := usersCollection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"last_login": now, "updated_at": now},
	})
	return err
}

// ProfilePatch holds the mutable profile fields for a partial update.
// Nil pointers mean "leave unchanged".
type ProfilePatch struct {
	Username       *string
	Email          *string
	Name           *string
	Bio            *string
	ProfilePicture *string
	ProfilePhoto   *string
	Avatar         *string
	Location       *string
	Website        *string
	Preferences    *models.Preferences
}

// UpdateProfile applies a partial profile update. Username/email are
// normalized to lowercase and re-checked for uniqueness excluding the
// caller's own record, so updating to the user's own current values never
// yields a false conflict. Returns the updated user.
func UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch ProfilePatch) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}

	var checkUsername, checkEmail string
	if patch.Username != nil {
		checkUsername = strings.ToLower(strings.TrimSpace(*patch.Username))
		set["username"] = checkUsername
	}
	if patch.Email != nil {
		checkEmail = strings.ToLower(strings.TrimSpace(*patch.Email))
		set["email"] = checkEmail
	}
	if checkUsername != "" || checkEmail != "" {
		if err := CheckIdentityAvailable(ctx, checkUsername, checkEmail, &userID); err != nil {
			return nil, err
		}
	}

	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.ProfilePicture != nil {
		set["profile_picture"] = *patch.ProfilePicture
	}
	if patch.ProfilePhoto != nil {
		set["profile_photo"] = *patch.ProfilePhoto
	}
	if patch.Avatar != nil {
		set["avatar"] = *patch.Avatar
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Website != nil {
		set["website"] = *patch.Website
	}
	if patch.Preferences != nil {
		set["preferences"] = *patch.Preferences
	}

	after := options.After
	var updated models.User
	err := usersCollection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		// The index guard can still fire in the race window between the
		// pre-check and the write.
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyField(err)
		}
		return nil, err
	}
	return &updated, nil
}

// SearchUsers does a case-insensitive substring match across username, name,
// fullName and email, newest-created first, capped at limit.
func SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	search := bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(query)), "$options": "i"}
	filter := bson.M{
		"$or": []bson.M{
			{"username": search},
			{"name": search},
			{"full_name": search},
			{"email": search},
		},
	}
	return findUsers(ctx, filter, limit)
}

// ListUsers returns up to limit users, newest-created first.
func ListUsers(ctx context.Context, limit int64) ([]models.User, error) {
	return findUsers(ctx, bson.M{}, limit)
}

func findUsers(ctx context.Context, filter bson.M, limit int64) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit)

	cursor, err := usersCollection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// RecentPostActivity is one of the five most recent posts in a stats rollup.
type RecentPostActivity struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
}

// UserStats is the on-demand per-user rollup.
type UserStats struct {
	TotalPosts         int64                `json:"totalPosts"`
	TotalComments      int64                `json:"totalComments"`
	SavedPosts         int64                `json:"savedPosts"`
	TotalLikesReceived int64                `json:"totalLikesReceived"`
	FollowerCount      int                  `json:"followerCount"`
	FollowingCount     int                  `json:"followingCount"`
	RecentPosts        []RecentPostActivity `json:"recentPosts"`
	JoinedDate         time.Time            `json:"joinedDate"`
	LastActive         time.Time            `json:"lastActive"`
}

// ComputeUserStats derives counts for a user on demand: total posts, comments
// authored across all posts, posts saved, likes received on authored posts,
// follower/following counts, and the five most recent posts.
func ComputeUserStats(ctx context.Context, userID primitive.ObjectID) (*UserStats, error) {
	user, err := FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts := database.DB.Collection("posts")

	totalPosts, err := posts.CountDocuments(ctx, bson.M{"author_id": userID})
	if err != nil {
		return nil, err
	}

	savedPosts, err := posts.CountDocuments(ctx, bson.M{"saves": userID.Hex()})
	if err != nil {
		return nil, err
	}

	// Comments authored by the user across all posts' embedded comment lists.
	commentsAgg, err := posts.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$unwind", Value: "$comments"}},
		{{Key: "$match", Value: bson.M{"comments.author_id": userID}}},
		{{Key: "$count", Value: "total"}},
	})
	if err != nil {
		return nil, err
	}
	totalComments := aggCount(ctx, commentsAgg)

	// Likes received across the user's own posts.
	likesAgg, err := posts.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author_id": userID}}},
		{{Key: "$project", Value: bson.M{"likesCount": bson.M{"$size": "$likes"}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$likesCount"}}}},
	})
	if err != nil {
		return nil, err
	}
	totalLikes := aggCount(ctx, likesAgg)

	recent, err := PostsByAuthor(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	recentActivity := make([]RecentPostActivity, 0, len(recent))
	for _, p := range recent {
		recentActivity = append(recentActivity, RecentPostActivity{
			ID:        p.ID.Hex(),
			Title:     p.Title,
			CreatedAt: p.CreatedAt,
			Likes:     len(p.Likes),
			Comments:  len(p.Comments),
		})
	}

	return &UserStats{
		TotalPosts:         totalPosts,
		TotalComments:      totalComments,
		SavedPosts:         savedPosts,
		TotalLikesReceived: totalLikes,
		FollowerCount:      len(user.Followers),
		FollowingCount:     len(user.Following),
		RecentPosts:        recentActivity,
		JoinedDate:         user.CreatedAt,
		LastActive:         user.UpdatedAt,
	}, nil
}

// aggCount drains a single-document {total: N} aggregation cursor.
func aggCount(ctx context.Context, cursor *mongo.Cursor) int64 {
	defer cursor.Close(ctx)
	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil || len(results) == 0 {
		return 0
	}
	return results[0].Total
}
