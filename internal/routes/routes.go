package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/inkwellhq/inkwell-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/register", handlers.Register)
	r.Post("/api/auth/login", handlers.Login)
	r.Post("/api/auth/logout", handlers.Logout)
	r.Get("/api/auth/me", handlers.GetMe)

	// Profile routes
	r.Get("/api/users/stats", handlers.GetStats)
	r.Get("/api/users/{username}", handlers.GetByUsername)
	r.Put("/api/users/profile", handlers.UpdateProfile)

	// Search routes
	r.Get("/api/search/users", handlers.SearchUsers)

	// Post routes
	r.Get("/api/posts", handlers.GetPosts)
	r.Post("/api/posts", handlers.CreatePost)
	r.Get("/api/posts/saved", handlers.GetSavedPosts)
	r.Get("/api/posts/{id}", handlers.GetPostByID)
	r.Put("/api/posts/{id}", handlers.UpdatePost)
	r.Delete("/api/posts/{id}", handlers.DeletePost)
	r.Post("/api/posts/{id}/like", handlers.ToggleLike)
	r.Post("/api/posts/{id}/save", handlers.ToggleSave)
	r.Post("/api/posts/{id}/comments", handlers.AddComment)
	r.Delete("/api/posts/{id}/comments/{commentId}", handlers.DeleteComment)

	// Direct message routes (MongoDB history + Redis Pub/Sub)
	r.Post("/api/messages", handlers.SendMessage)
	r.Get("/api/messages/conversations", handlers.GetConversations)

	// WebSocket endpoint for realtime direct messages
	r.Get("/ws/messages", handlers.MessagesWebSocket)

	// File upload routes
	r.Post("/api/upload", handlers.UploadFile)

	// Feedback routes
	r.Post("/api/feedback", handlers.SubmitFeedback)
	r.Get("/api/admin/feedbacks", handlers.GetFeedbacks)
	r.Put("/api/admin/feedbacks/{id}", handlers.UpdateFeedback)
	r.Delete("/api/admin/feedbacks/{id}", handlers.DeleteFeedback)

	// Legacy aliases kept so older clients keep working
	r.Get("/api/user/getByUsername", handlers.GetByUsername)
	r.Get("/api/user/search", handlers.SearchUsers)
	r.Get("/api/user/stats", handlers.GetStats)
	r.Put("/api/user/update", handlers.UpdateProfile)
	r.Post("/api/messages/send", handlers.SendMessage)
}
