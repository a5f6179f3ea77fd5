package post

import (
	"Gather/internal/api/middleware"
	"Gather/internal/core/posts"
	"Gather/internal/core/users"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ReplyHandler handles adding replies to posts
type ReplyHandler struct {
	service     posts.Service
	userService users.Service
}

// NewReplyHandler creates a new reply handler
func NewReplyHandler(service posts.Service, userService users.Service) *ReplyHandler {
	return &ReplyHandler{service: service, userService: userService}
}

type addReplyRequest struct {
	Content string `json:"content"`
	Path    string `json:"path,omitempty"`
}

// HandleReply adds a reply under an existing post
// POST /api/posts/{id}/replies
func (h *ReplyHandler) HandleReply(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.ViewerExternalID(r)
	if viewerID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	parentID := chi.URLParam(r, "id")
	if parentID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Post ID is required")
		return
	}

	var req addReplyRequest
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

	reply, err := h.service.AddReply(r.Context(), posts.AddReplyRequest{
		ParentID: parentID,
		Content:  req.Content,
		AuthorID: author.ID,
		Path:     req.Path,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reply)
}
