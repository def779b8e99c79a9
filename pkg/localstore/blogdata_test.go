package localstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlogData(t *testing.T) *BlogData {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	return NewBlogData(store)
}

func TestAllPostsEmpty(t *testing.T) {
	b := newTestBlogData(t)

	posts, err := b.AllPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestCreatePostAndOrdering(t *testing.T) {
	b := newTestBlogData(t)

	first, err := b.CreatePost("First", "content one", "", "u1", "alice", "")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.Equal(t, []string{}, first.Likes)
	assert.Equal(t, []string{}, first.Saves)
	assert.Equal(t, []Comment{}, first.Comments)

	time.Sleep(5 * time.Millisecond)
	second, err := b.CreatePost("Second", "content two", "cover.png", "u2", "bob", "bob.png")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	posts, err := b.AllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Second", posts[0].Title, "newest post first")
	assert.Equal(t, "First", posts[1].Title)
	assert.Equal(t, "cover.png", posts[0].Image)
	assert.Equal(t, "bob.png", posts[0].AuthorAvatar)
}

func TestUpdatePost(t *testing.T) {
	b := newTestBlogData(t)
	post, err := b.CreatePost("Title", "content", "", "u1", "alice", "")
	require.NoError(t, err)

	title := "New title"
	updated, err := b.UpdatePost(post.ID, PostUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "content", updated.Content, "unset fields stay unchanged")
	assert.False(t, updated.UpdatedAt.Before(post.UpdatedAt))

	_, err = b.UpdatePost("missing-id", PostUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost(t *testing.T) {
	b := newTestBlogData(t)
	post, err := b.CreatePost("Title", "content", "", "u1", "alice", "")
	require.NoError(t, err)

	require.NoError(t, b.DeletePost(post.ID))

	posts, err := b.AllPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)

	assert.ErrorIs(t, b.DeletePost(post.ID), ErrNotFound)
}

func TestPostsByAuthor(t *testing.T) {
	b := newTestBlogData(t)
	_, err := b.CreatePost("By alice", "c", "", "u1", "alice", "")
	require.NoError(t, err)
	_, err = b.CreatePost("By bob", "c", "", "u2", "bob", "")
	require.NoError(t, err)

	posts, err := b.PostsByAuthor("u1")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "By alice", posts[0].Title)

	none, err := b.PostsByAuthor("u3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestToggleLikeInvolution(t *testing.T) {
	b := newTestBlogData(t)
	post, err := b.CreatePost("Title", "content", "", "u1", "alice", "")
	require.NoError(t, err)

	liked, err := b.ToggleLike(post.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, liked.Likes)

	// Toggling twice restores the original state.
	unliked, err := b.ToggleLike(post.ID, "u2")
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	_, err = b.ToggleLike("missing-id", "u2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleSaveAndSavedPosts(t *testing.T) {
	b := newTestBlogData(t)
	p1, err := b.CreatePost("One", "c", "", "u1", "alice", "")
	require.NoError(t, err)
	_, err = b.CreatePost("Two", "c", "", "u1", "alice", "")
	require.NoError(t, err)

	_, err = b.ToggleSave(p1.ID, "u2")
	require.NoError(t, err)

	saved, err := b.SavedPosts("u2")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "One", saved[0].Title)

	_, err = b.ToggleSave(p1.ID, "u2")
	require.NoError(t, err)

	saved, err = b.SavedPosts("u2")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestAddAndDeleteComment(t *testing.T) {
	b := newTestBlogData(t)
	post, err := b.CreatePost("Title", "content", "", "u1", "alice", "")
	require.NoError(t, err)

	comment, err := b.AddComment(post.ID, "u2", "bob", "nice post")
	require.NoError(t, err)
	require.NotEmpty(t, comment.ID)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "bob", comment.AuthorUsername)

	posts, err := b.AllPosts()
	require.NoError(t, err)
	require.Len(t, posts[0].Comments, 1)

	require.NoError(t, b.DeleteComment(post.ID, comment.ID))

	posts, err = b.AllPosts()
	require.NoError(t, err)
	assert.Empty(t, posts[0].Comments)

	assert.ErrorIs(t, b.DeleteComment(post.ID, comment.ID), ErrNotFound)
	assert.ErrorIs(t, b.DeleteComment("missing-id", comment.ID), ErrNotFound)

	_, err = b.AddComment("missing-id", "u2", "bob", "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceAllAndNormalization(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	b := NewBlogData(store)

	// Simulate an older record missing the likes/saves/comments arrays.
	require.NoError(t, store.Set(KeyPosts, []map[string]interface{}{
		{"id": "legacy", "title": "Legacy", "content": "c", "authorId": "u1", "authorUsername": "alice"},
	}))

	posts, err := b.AllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, []string{}, posts[0].Likes)
	assert.Equal(t, []string{}, posts[0].Saves)
	assert.Equal(t, []Comment{}, posts[0].Comments)

	require.NoError(t, b.ReplaceAll(nil))
	posts, err = b.AllPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	post, err := NewBlogData(store).CreatePost("Durable", "content", "", "u1", "alice", "")
	require.NoError(t, err)

	reopened, err := Open(dir)
	require.NoError(t, err)
	posts, err := NewBlogData(reopened).AllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
}
