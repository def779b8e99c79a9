package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCommentLength caps post comment content.
const MaxCommentLength = 2000

// Comment is embedded in a post's comments array.
// AuthorUsername is a snapshot taken when the comment is created.
type Comment struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	PostID         primitive.ObjectID `bson:"post_id" json:"postId"`
	AuthorID       primitive.ObjectID `bson:"author_id" json:"authorId"`
	AuthorUsername string             `bson:"author_username" json:"authorUsername"`
	Content        string             `bson:"content" json:"content"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
}

// Post is stored in the "posts" collection with embedded like/save sets and
// comments. Author fields are denormalized snapshots taken at creation time;
// later profile renames do not retroactively update old posts.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`

	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
	Image   string `bson:"image,omitempty" json:"image,omitempty"`

	AuthorID       primitive.ObjectID `bson:"author_id" json:"authorId"`
	AuthorUsername string             `bson:"author_username" json:"authorUsername"`
	AuthorAvatar   string             `bson:"author_avatar,omitempty" json:"authorAvatar,omitempty"`

	// Likes and saves are sets of user ids with toggle semantics: toggling a
	// present id removes it, toggling an absent id inserts it.
	Likes    []string  `bson:"likes" json:"likes"`
	Saves    []string  `bson:"saves" json:"saves"`
	Comments []Comment `bson:"comments" json:"comments"`
}

// HasLike reports whether the user id is in the like set.
func (p *Post) HasLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// HasSave reports whether the user id is in the save set.
func (p *Post) HasSave(userID string) bool {
	for _, id := range p.Saves {
		if id == userID {
			return true
		}
	}
	return false
}

// FindComment returns the embedded comment with the given id, or nil.
func (p *Post) FindComment(commentID primitive.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}
