package localstore

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a post or comment id does not exist locally.
var ErrNotFound = errors.New("localstore: not found")

// Comment mirrors the backend comment shape with string ids.
type Comment struct {
	ID             string    `json:"id"`
	PostID         string    `json:"postId"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Post mirrors the backend post shape with string ids. Likes and Saves hold
// user ids.
type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Image          string    `json:"image,omitempty"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	AuthorAvatar   string    `json:"authorAvatar,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Likes          []string  `json:"likes"`
	Saves          []string  `json:"saves"`
	Comments       []Comment `json:"comments"`
}

// BlogData implements the post operations against the local store. Records
// written by older versions may lack the likes/saves/comments arrays; reads
// normalize them to empty slices.
type BlogData struct {
	store *Store
}

// NewBlogData returns a post manager over the given store.
func NewBlogData(store *Store) *BlogData {
	return &BlogData{store: store}
}

func (b *BlogData) load() ([]Post, error) {
	var posts []Post
	if err := b.store.Get(KeyPosts, &posts); err != nil {
		if err == ErrKeyNotFound {
			return []Post{}, nil
		}
		return nil, err
	}
	for i := range posts {
		if posts[i].Likes == nil {
			posts[i].Likes = []string{}
		}
		if posts[i].Saves == nil {
			posts[i].Saves = []string{}
		}
		if posts[i].Comments == nil {
			posts[i].Comments = []Comment{}
		}
	}
	return posts, nil
}

func (b *BlogData) save(posts []Post) error {
	return b.store.Set(KeyPosts, posts)
}

// AllPosts returns every local post, newest first.
func (b *BlogData) AllPosts() ([]Post, error) {
	posts, err := b.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// ReplaceAll overwrites the local posts with a fresh snapshot from the
// backend. Used by the client after successful remote reads.
func (b *BlogData) ReplaceAll(posts []Post) error {
	if posts == nil {
		posts = []Post{}
	}
	return b.save(posts)
}

// CreatePost stores a new post with a generated id and empty like, save and
// comment sets.
func (b *BlogData) CreatePost(title, content, image, authorID, authorUsername, authorAvatar string) (*Post, error) {
	posts, err := b.load()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := Post{
		ID:             uuid.New().String(),
		Title:          title,
		Content:        content,
		Image:          image,
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		AuthorAvatar:   authorAvatar,
		CreatedAt:      now,
		UpdatedAt:      now,
		Likes:          []string{},
		Saves:          []string{},
		Comments:       []Comment{},
	}

	posts = append([]Post{post}, posts...)
	if err := b.save(posts); err != nil {
		return nil, err
	}
	return &post, nil
}

// PostUpdate carries partial post edits. Nil means unchanged.
type PostUpdate struct {
	Title   *string
	Content *string
	Image   *string
}

// UpdatePost applies a partial edit and bumps UpdatedAt.
func (b *BlogData) UpdatePost(id string, update PostUpdate) (*Post, error) {
	posts, err := b.load()
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		if update.Title != nil {
			posts[i].Title = *update.Title
		}
		if update.Content != nil {
			posts[i].Content = *update.Content
		}
		if update.Image != nil {
			posts[i].Image = *update.Image
		}
		posts[i].UpdatedAt = time.Now().UTC()
		if err := b.save(posts); err != nil {
			return nil, err
		}
		post := posts[i]
		return &post, nil
	}
	return nil, ErrNotFound
}

// DeletePost removes a post by id.
func (b *BlogData) DeletePost(id string) error {
	posts, err := b.load()
	if err != nil {
		return err
	}

	kept := posts[:0]
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(posts) {
		return ErrNotFound
	}
	return b.save(kept)
}

// PostsByAuthor returns the author's posts, newest first.
func (b *BlogData) PostsByAuthor(authorID string) ([]Post, error) {
	posts, err := b.AllPosts()
	if err != nil {
		return nil, err
	}
	var out []Post
	for _, p := range posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []Post{}
	}
	return out, nil
}

// ToggleLike flips the user's membership in the post's like set. A second
// call with the same arguments restores the original state.
func (b *BlogData) ToggleLike(postID, userID string) (*Post, error) {
	return b.toggle(postID, userID, func(p *Post) *[]string { return &p.Likes })
}

// ToggleSave flips the user's membership in the post's save set.
func (b *BlogData) ToggleSave(postID, userID string) (*Post, error) {
	return b.toggle(postID, userID, func(p *Post) *[]string { return &p.Saves })
}

func (b *BlogData) toggle(postID, userID string, field func(*Post) *[]string) (*Post, error) {
	posts, err := b.load()
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID != postID {
			continue
		}
		set := field(&posts[i])
		removed := false
		for j, member := range *set {
			if member == userID {
				*set = append((*set)[:j], (*set)[j+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			*set = append(*set, userID)
		}
		if err := b.save(posts); err != nil {
			return nil, err
		}
		post := posts[i]
		return &post, nil
	}
	return nil, ErrNotFound
}

// AddComment appends a comment to a post.
func (b *BlogData) AddComment(postID, authorID, authorUsername, content string) (*Comment, error) {
	posts, err := b.load()
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID != postID {
			continue
		}
		comment := Comment{
			ID:             uuid.New().String(),
			PostID:         postID,
			AuthorID:       authorID,
			AuthorUsername: authorUsername,
			Content:        content,
			CreatedAt:      time.Now().UTC(),
		}
		posts[i].Comments = append(posts[i].Comments, comment)
		posts[i].UpdatedAt = time.Now().UTC()
		if err := b.save(posts); err != nil {
			return nil, err
		}
		return &comment, nil
	}
	return nil, ErrNotFound
}

// DeleteComment removes a comment from a post.
func (b *BlogData) DeleteComment(postID, commentID string) error {
	posts, err := b.load()
	if err != nil {
		return err
	}

	for i := range posts {
		if posts[i].ID != postID {
			continue
		}
		for j := range posts[i].Comments {
			if posts[i].Comments[j].ID == commentID {
				posts[i].Comments = append(posts[i].Comments[:j], posts[i].Comments[j+1:]...)
				return b.save(posts)
			}
		}
		return ErrNotFound
	}
	return ErrNotFound
}

// SavedPosts returns the posts the user has saved, newest first.
func (b *BlogData) SavedPosts(userID string) ([]Post, error) {
	posts, err := b.AllPosts()
	if err != nil {
		return nil, err
	}
	var out []Post
	for _, p := range posts {
		for _, saver := range p.Saves {
			if saver == userID {
				out = append(out, p)
				break
			}
		}
	}
	if out == nil {
		out = []Post{}
	}
	return out, nil
}
