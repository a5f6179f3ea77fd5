package routes

import (
	"Gather/internal/api/handlers/group"
	"Gather/internal/api/middleware"
	"Gather/internal/core/groups"

	"github.com/go-chi/chi/v5"
)

// RegisterGroupRoutes registers group endpoints on the router
func RegisterGroupRoutes(r chi.Router, service groups.Service, identity *middleware.Identity) {
	// Initialize handlers
	createHandler := group.NewCreateHandler(service)
	getHandler := group.NewGetHandler(service)
	postsHandler := group.NewPostsHandler(service)
	listHandler := group.NewListHandler(service)
	membersHandler := group.NewMembersHandler(service)
	updateHandler := group.NewUpdateHandler(service)
	deleteHandler := group.NewDeleteHandler(service)

	// Query endpoints (GET) - public access
	r.Get("/api/groups", listHandler.HandleList)
	r.Get("/api/groups/{externalID}", getHandler.HandleGet)
	r.Get("/api/groups/{externalID}/posts", postsHandler.HandlePosts)

	// Procedure endpoints - require an authenticated viewer
	r.With(identity.RequireViewer).Post("/api/groups", createHandler.HandleCreate)
	r.With(identity.RequireViewer).Patch("/api/groups/{externalID}", updateHandler.HandleUpdate)
	r.With(identity.RequireViewer).Delete("/api/groups/{externalID}", deleteHandler.HandleDelete)
	r.With(identity.RequireViewer).Post("/api/groups/{externalID}/members", membersHandler.HandleAdd)
	r.With(identity.RequireViewer).Delete("/api/groups/{externalID}/members/{userExternalID}", membersHandler.HandleRemove)
}
