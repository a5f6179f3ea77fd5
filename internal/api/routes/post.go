package routes

import (
	"Gather/internal/api/handlers/post"
	"Gather/internal/api/middleware"
	"Gather/internal/core/posts"
	"Gather/internal/core/users"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers post and reply endpoints on the router
func RegisterPostRoutes(r chi.Router, service posts.Service, userService users.Service, identity *middleware.Identity) {
	// Initialize handlers
	feedHandler := post.NewFeedHandler(service)
	createHandler := post.NewCreateHandler(service, userService)
	getHandler := post.NewGetHandler(service)
	replyHandler := post.NewReplyHandler(service, userService)
	deleteHandler := post.NewDeleteHandler(service)

	// Query endpoints (GET) - public access
	r.Get("/api/posts", feedHandler.HandleFeed)
	r.Get("/api/posts/{id}", getHandler.HandleGet)

	// Procedure endpoints - require an authenticated viewer
	r.With(identity.RequireViewer).Post("/api/posts", createHandler.HandleCreate)
	r.With(identity.RequireViewer).Post("/api/posts/{id}/replies", replyHandler.HandleReply)
	r.With(identity.RequireViewer).Delete("/api/posts/{id}", deleteHandler.HandleDelete)
}
