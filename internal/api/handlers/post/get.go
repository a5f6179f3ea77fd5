package post

import (
	"Gather/internal/core/posts"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetHandler handles fetching a single post with its reply thread
type GetHandler struct {
	service posts.Service
}

// NewGetHandler creates a new post retrieval handler
func NewGetHandler(service posts.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGet fetches a post with two levels of replies
// GET /api/posts/{id}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Post ID is required")
		return
	}

	view, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
