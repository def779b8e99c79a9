package blogclient

import (
	"context"
	"log"
	"net/url"

	"github.com/inkwellhq/inkwell-backend/pkg/localstore"
)

type postEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Post    localstore.Post `json:"post"`
}

type postListEnvelope struct {
	Success bool              `json:"success"`
	Posts   []localstore.Post `json:"posts"`
}

type commentEnvelope struct {
	Success bool               `json:"success"`
	Comment localstore.Comment `json:"comment"`
}

// Posts returns all posts, newest first. A successful remote read refreshes
// the local mirror so later offline reads serve recent data.
func (c *Client) Posts(ctx context.Context) ([]localstore.Post, error) {
	if c.remoteAvailable() {
		var env postListEnvelope
		transport, err := c.doJSON(ctx, "GET", "/api/posts", nil, &env)
		if err == nil {
			if mirrorErr := c.mirror.ReplaceAll(env.Posts); mirrorErr != nil {
				log.Printf("⚠️  Failed to refresh local mirror: %v", mirrorErr)
			}
			return env.Posts, nil
		}
		if !transport {
			return nil, err
		}
		c.tripBreaker("list posts", err)
	}
	return c.mirror.AllPosts()
}

// CreatePost creates a post remotely, or locally when the backend is
// unreachable. The author fields are only used for the local copy; the
// backend derives them from the bearer token.
func (c *Client) CreatePost(ctx context.Context, title, content, image, authorID, authorUsername, authorAvatar string) (*localstore.Post, error) {
	if c.remoteAvailable() {
		body := map[string]string{"title": title, "content": content, "image": image}
		var env postEnvelope
		transport, err := c.doJSON(ctx, "POST", "/api/posts", body, &env)
		if err == nil {
			return &env.Post, nil
		}
		if !transport {
			return nil, err
		}
		c.tripBreaker("create post", err)
	}
	return c.mirror.CreatePost(title, content, image, authorID, authorUsername, authorAvatar)
}

// UpdatePost applies a partial edit.
func (c *Client) UpdatePost(ctx context.Context, id string, update localstore.PostUpdate) (*localstore.Post, error) {
	if c.remoteAvailable() {
		body := map[string]interface{}{}
		if update.Title != nil {
			body["title"] = *update.Title
		}
		if update.Content != nil {
			body["content"] = *update.Content
		}
		if update.Image != nil {
			body["image"] = *update.Image
		}
		var env postEnvelope
		transport, err := c.doJSON(ctx, "PUT", "/api/posts/"+url.PathEscape(id), body, &env)
		if err == nil {
			return &env.Post, nil
		}
		if !transport {
			return nil, err
		}
		c.tripBreaker("update post", err)
	}
	return c.mirror.UpdatePost(id, update)
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	if c.remoteAvailable() {
		transport, err := c.doJSON(ctx, "DELETE", "/api/posts/"+url.PathEscape(id), nil, nil)
		if err == nil {
			return nil
		}
		if !transport {
			return err
		}
		c.tripBreaker("delete post", err)
	}
	return c.mirror.DeletePost(id)
}

// PostsByAuthor returns the author's posts. Remote results come from the
// full post list; offline the mirror filters locally.
func (c *Client) PostsByAuthor(ctx context.Context, authorID string) ([]localstore.Post, error) {
	posts, err := c.Posts(ctx)
	if err != nil {
		return nil, err
	}
	var out []localstore.Post
	for _, p := range posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []localstore.Post{}
	}
	return out, nil
}

// ToggleLike flips the user's like on a post.
func (c *Client) ToggleLike(ctx context.Context, postID, userID string) (*localstore.Post, error) {
	return c.togglePostSet(ctx, "like", postID, userID)
}

// ToggleSave flips the user's save on a post.
func (c *Client) ToggleSave(ctx context.Context, postID, userID string) (*localstore.Post, error) {
	return c.togglePostSet(ctx, "save", postID, userID)
}

func (c *Client) togglePostSet(ctx context.Context, action, postID, userID string) (*localstore.Post, error) {
	if c.remoteAvailable() {
		var env postEnvelope
		transport, err := c.doJSON(ctx, "POST", "/api/posts/"+url.PathEscape(postID)+"/"+action, nil, &env)
		if err == nil {
			return &env.Post, nil
		}
		if !transport {
			return nil, err
		}
		c.tripBreaker("toggle "+action, err)
	}
	if action == "like" {
		return c.mirror.ToggleLike(postID, userID)
	}
	return c.mirror.ToggleSave(postID, userID)
}

// AddComment appends a comment to a post. The author fields are only used
// for the local copy.
func (c *Client) AddComment(ctx context.Context, postID, authorID, authorUsername, content string) (*localstore.Comment, error) {
	if c.remoteAvailable() {
		body := map[string]string{"content": content}
		var env commentEnvelope
		transport, err := c.doJSON(ctx, "POST", "/api/posts/"+url.PathEscape(postID)+"/comments", body, &env)
		if err == nil {
			return &env.Comment, nil
		}
		if !transport {
			return nil, err
		}
		c.tripBreaker("add comment", err)
	}
	return c.mirror.AddComment(postID, authorID, authorUsername, content)
}

// DeleteComment removes a comment from a post.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) error {
	if c.remoteAvailable() {
		transport, err := c.doJSON(ctx, "DELETE", "/api/posts/"+url.PathEscape(postID)+"/comments/"+url.PathEscape(commentID), nil, nil)
		if err == nil {
			return nil
		}
		if !transport {
			return err
		}
		c.tripBreaker("delete comment", err)
	}
	return c.mirror.DeleteComment(postID, commentID)
}

// SavedPosts returns the posts the user has saved.
func (c *Client) SavedPosts(ctx context.Context, userID string) ([]localstore.Post, error) {
	if c.remoteAvailable() {
		var env postListEnvelope
		transport, err := c.doJSON(ctx, "GET", "/api/posts/saved?userId="+url.QueryEscape(userID), nil, &env)
		if err == nil {
			if env.Posts == nil {
				env.Posts = []localstore.Post{}
			}
			return env.Posts, nil
		}
		if !transport {
			return nil, err
		}
		c.tripBreaker("list saved posts", err)
	}
	return c.mirror.SavedPosts(userID)
}
