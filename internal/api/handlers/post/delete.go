package post

import (
	"Gather/internal/api/middleware"
	"Gather/internal/core/posts"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DeleteHandler handles cascading post deletion
type DeleteHandler struct {
	service posts.Service
}

// NewDeleteHandler creates a new post deletion handler
func NewDeleteHandler(service posts.Service) *DeleteHandler {
	return &DeleteHandler{service: service}
}

// HandleDelete deletes a post and its entire reply subtree
// DELETE /api/posts/{id}?path={path}
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.ViewerExternalID(r)
	if viewerID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Post ID is required")
		return
	}

	if err := h.service.DeleteCascade(r.Context(), id, r.URL.Query().Get("path")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
