package user

import (
	"Gather/internal/core/users"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PostsHandler handles a user's authored posts
type PostsHandler struct {
	service users.Service
}

// NewPostsHandler creates a new posts handler
func NewPostsHandler(service users.Service) *PostsHandler {
	return &PostsHandler{service: service}
}

// HandlePosts fetches a user's posts with reply previews
// GET /api/users/{externalID}/posts
func (h *PostsHandler) HandlePosts(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	result, err := h.service.GetUserPosts(r.Context(), externalID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
