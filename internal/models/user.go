package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationPrefs holds per-channel notification flags.
type NotificationPrefs struct {
	Email     bool `bson:"email" json:"email"`
	Push      bool `bson:"push" json:"push"`
	Marketing bool `bson:"marketing" json:"marketing"`
}

// Preferences is the user preference bag.
// Theme is one of "light", "dark", "system".
type Preferences struct {
	Theme         string            `bson:"theme" json:"theme"`
	Notifications NotificationPrefs `bson:"notifications" json:"notifications"`
}

// DefaultPreferences matches what new accounts get at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme: "dark",
		Notifications: NotificationPrefs{
			Email:     true,
			Push:      true,
			Marketing: false,
		},
	}
}

type SocialLinks struct {
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	GitHub    string `bson:"github,omitempty" json:"github,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

// User is stored in the "users" collection. Username and email are stored
// lowercased; uniqueness is enforced by unique indexes created at startup.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`

	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // Never returned in JSON

	Name     string `bson:"name,omitempty" json:"name,omitempty"`
	FullName string `bson:"full_name,omitempty" json:"fullName,omitempty"`
	Bio      string `bson:"bio,omitempty" json:"bio,omitempty"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`
	Website  string `bson:"website,omitempty" json:"website,omitempty"`

	// Avatar fallback chain: ProfilePhoto, then ProfilePicture, then Avatar.
	ProfilePicture string `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"`
	ProfilePhoto   string `bson:"profile_photo,omitempty" json:"profilePhoto,omitempty"`
	Avatar         string `bson:"avatar,omitempty" json:"avatar,omitempty"`

	SocialLinks SocialLinks `bson:"social_links,omitempty" json:"socialLinks,omitempty"`
	Preferences Preferences `bson:"preferences" json:"preferences"`

	IsEmailVerified bool       `bson:"is_email_verified" json:"isEmailVerified"`
	IsAdmin         bool       `bson:"is_admin" json:"isAdmin"`
	LastLogin       *time.Time `bson:"last_login,omitempty" json:"lastLogin,omitempty"`

	PostsCount int                  `bson:"posts_count" json:"postsCount"`
	Followers  []primitive.ObjectID `bson:"followers" json:"followers"`
	Following  []primitive.ObjectID `bson:"following" json:"following"`
}

// DisplayAvatar resolves the avatar fallback chain.
func (u *User) DisplayAvatar() string {
	if u.ProfilePhoto != "" {
		return u.ProfilePhoto
	}
	if u.ProfilePicture != "" {
		return u.ProfilePicture
	}
	return u.Avatar
}

// DisplayName resolves name, then fullName.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.FullName
}
