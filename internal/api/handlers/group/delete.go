package group

import (
	"Gather/internal/core/groups"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DeleteHandler handles group deletion
type DeleteHandler struct {
	service groups.Service
}

// NewDeleteHandler creates a new delete handler
func NewDeleteHandler(service groups.Service) *DeleteHandler {
	return &DeleteHandler{service: service}
}

// HandleDelete deletes a group, cascading to its posts and the membership
// references held by its members
// DELETE /api/groups/{externalID}
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	if err := h.service.Delete(r.Context(), externalID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
