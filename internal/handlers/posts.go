package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inkwellhq/inkwell-backend/internal/models"
	"github.com/inkwellhq/inkwell-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

type PostResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Post    *models.Post `json:"post,omitempty"`
}

type PostListResponse struct {
	Success bool          `json:"success"`
	Posts   []models.Post `json:"posts"`
}

// GetPosts returns all posts, newest first.
func GetPosts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	posts, err := services.GetAllPosts(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	writeJSON(w, http.StatusOK, PostListResponse{Success: true, Posts: posts})
}

// GetPostByID returns a single post.
func GetPostByID(w http.ResponseWriter, r *http.Request) {
	postID, ok := parseObjectID(w, chi.URLParam(r, "id"), "post ID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	post, err := services.GetPost(ctx, postID)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PostResponse{Success: true, Post: post})
}

// CreatePost creates a post for the authenticated user, snapshotting the
// author's current username and avatar.
func CreatePost(w http.ResponseWriter, r *http.Request) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		writeMessage(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	authorID, ok := parseObjectID(w, claims.UserID, "user ID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	author, err := services.FindUserByID(ctx, authorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	post, err := services.CreatePost(ctx, author, req.Title, req.Content, req.Image)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, PostResponse{
		Success: true,
		Message: "Post created successfully",
		Post:    post,
	})
}

type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Image   *string `json:"image,omitempty"`
}

// UpdatePost applies a partial edit; only the post's author may edit it.
func UpdatePost(w http.ResponseWriter, r *http.Request) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}

	postID, ok := parseObjectID(w, chi.URLParam(r, "id"), "post ID")
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeMessage(w, http.StatusBadRequest, "Title cannot be empty")
		return
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		writeMessage(w, http.StatusBadRequest, "Content cannot be empty")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	post, err := services.GetPost(ctx, postID)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if post.AuthorID.Hex() != claims.UserID {
		writeMessage(w, http.StatusForbidden, "Only the author can edit this post")
		return
	}

	updated, err := services.UpdatePost(ctx, postID, services.PostPatch{
		Title:   req.Title,
		Content: req.Content,
		Image:   req.Image,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PostResponse{
		Success: true,
		Message: "Post updated successfully",
		Post:    updated,
	})
}

// DeletePost removes a post; only the post's author may delete it.
func DeletePost(w http.ResponseWriter, r *http.Request) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}

	postID, ok := parseObjectID(w, chi.URLParam(r, "id"), "post ID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	post, err := services.GetPost(ctx, postID)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if post.AuthorID.Hex() != claims.UserID {
		writeMessage(w, http.StatusForbidden, "Only the author can delete this post")
		return
	}

	if err := services.DeletePost(ctx, postID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Post deleted successfully")
}

// ToggleLike flips the caller's membership in the post's like set: a second
// call restores the original state.
func ToggleLike(w http.ResponseWriter, r *http.Request) {
	togglePostSet(w, r, services.ToggleLike)
}

// ToggleSave flips the caller's membership in the post's save set.
func ToggleSave(w http.ResponseWriter, r *http.Request) {
	togglePostSet(w, r, services.ToggleSave)
}

func togglePostSet(w http.ResponseWriter, r *http.Request, toggle func(ctx context.Context, postID primitive.ObjectID, userID string) (*models.Post, error)) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}

	postID, ok := parseObjectID(w, chi.URLParam(r, "id"), "post ID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	post, err := toggle(ctx, postID, claims.UserID)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PostResponse{Success: true, Post: post})
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Comment *models.Comment `json:"comment,omitempty"`
}

// AddComment appends a comment to a post.
func AddComment(w http.ResponseWriter, r *http.Request) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}

	postID, ok := parseObjectID(w, chi.URLParam(r, "id"), "post ID")
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeMessage(w, http.StatusBadRequest, "Comment content is required")
		return
	}
	if len(content) > models.MaxCommentLength {
		writeMessage(w, http.StatusBadRequest, "Comment too long (max 2000 characters)")
		return
	}

	authorID, ok := parseObjectID(w, claims.UserID, "user ID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	comment, err := services.AddComment(ctx, postID, authorID, claims.Username, content)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CommentResponse{
		Success: true,
		Message: "Comment added successfully",
		Comment: comment,
	})
}

// DeleteComment removes a comment. Both the comment's author and the post's
// author are allowed to delete it; anyone else gets 403.
func DeleteComment(w http.ResponseWriter, r *http.Request) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}

	postID, ok := parseObjectID(w, chi.URLParam(r, "id"), "post ID")
	if !ok {
		return
	}
	commentID, ok := parseObjectID(w, chi.URLParam(r, "commentId"), "comment ID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	post, err := services.GetPost(ctx, postID)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		writeMessage(w, http.StatusNotFound, "Comment not found")
		return
	}

	if comment.AuthorID.Hex() != claims.UserID && post.AuthorID.Hex() != claims.UserID {
		writeMessage(w, http.StatusForbidden, "Only the comment author or post author can delete this comment")
		return
	}

	if err := services.DeleteComment(ctx, postID, commentID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Comment deleted successfully")
}

// GetSavedPosts returns the posts a user has saved.
func GetSavedPosts(w http.ResponseWriter, r *http.Request) {
	userIDHex := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userIDHex == "" {
		writeMessage(w, http.StatusBadRequest, "User ID is required")
		return
	}
	userID, ok := parseObjectID(w, userIDHex, "user ID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	posts, err := services.SavedPosts(ctx, userID.Hex())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	writeJSON(w, http.StatusOK, PostListResponse{Success: true, Posts: posts})
}
