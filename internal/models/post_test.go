package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPostMembershipChecks(t *testing.T) {
	post := &Post{
		Likes: []string{"u1", "u2"},
		Saves: []string{"u2"},
	}

	assert.True(t, post.HasLike("u1"))
	assert.True(t, post.HasLike("u2"))
	assert.False(t, post.HasLike("u3"))

	assert.True(t, post.HasSave("u2"))
	assert.False(t, post.HasSave("u1"))
}

func TestFindComment(t *testing.T) {
	c1 := Comment{ID: primitive.NewObjectID(), Content: "first"}
	c2 := Comment{ID: primitive.NewObjectID(), Content: "second"}
	post := &Post{Comments: []Comment{c1, c2}}

	found := post.FindComment(c2.ID)
	assert.NotNil(t, found)
	assert.Equal(t, "second", found.Content)

	assert.Nil(t, post.FindComment(primitive.NewObjectID()))
}
