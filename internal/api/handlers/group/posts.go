package group

import (
	"Gather/internal/core/groups"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PostsHandler handles a group's post listing
type PostsHandler struct {
	service groups.Service
}

// NewPostsHandler creates a new posts handler
func NewPostsHandler(service groups.Service) *PostsHandler {
	return &PostsHandler{service: service}
}

// HandlePosts fetches a group's posts with author summaries and reply previews
// GET /api/groups/{externalID}/posts
func (h *PostsHandler) HandlePosts(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	details, err := h.service.GetDetails(r.Context(), externalID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if details == nil {
		writeError(w, http.StatusNotFound, "NotFound", "group not found")
		return
	}

	result, err := h.service.GetGroupPosts(r.Context(), details.Group.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
