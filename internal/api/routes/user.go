package routes

import (
	"Gather/internal/api/handlers/user"
	"Gather/internal/api/middleware"
	"Gather/internal/core/users"

	"github.com/go-chi/chi/v5"
)

// RegisterUserRoutes registers user profile endpoints on the router
func RegisterUserRoutes(r chi.Router, service users.Service, identity *middleware.Identity) {
	// Initialize handlers
	upsertHandler := user.NewUpsertHandler(service)
	getHandler := user.NewGetHandler(service)
	postsHandler := user.NewPostsHandler(service)

	// Query endpoints (GET) - public access
	r.Get("/api/users/{externalID}", getHandler.HandleGet)
	r.Get("/api/users/{externalID}/posts", postsHandler.HandlePosts)

	// Procedure endpoints - require an authenticated viewer
	r.With(identity.RequireViewer).Post("/api/users", upsertHandler.HandleUpsert)
}
