package post

import (
	"Gather/internal/api/middleware"
	"Gather/internal/core/posts"
	"Gather/internal/core/users"
	"encoding/json"
	"net/http"
)

// CreateHandler handles post creation
type CreateHandler struct {
	service     posts.Service
	userService users.Service
}

// NewCreateHandler creates a new post creation handler
func NewCreateHandler(service posts.Service, userService users.Service) *CreateHandler {
	return &CreateHandler{service: service, userService: userService}
}

type createPostRequest struct {
	Content         string `json:"content"`
	GroupExternalID string `json:"groupExternalId,omitempty"`
	Path            string `json:"path,omitempty"`
}

// HandleCreate creates a new top-level post authored by the viewer
// POST /api/posts
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.ViewerExternalID(r)
	if viewerID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid JSON in request body")
		return
	}

	author, err := h.userService.GetByExternalID(r.Context(), viewerID)
	if err != nil {
		if users.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "NotFound", "Author profile not found")
			return
		}
		handleServiceError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), posts.CreatePostRequest{
		Content:         req.Content,
		AuthorID:        author.ID,
		GroupExternalID: req.GroupExternalID,
		Path:            req.Path,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
