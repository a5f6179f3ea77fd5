package group

import (
	"Gather/internal/core/groups"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetHandler handles group detail lookups
type GetHandler struct {
	service groups.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service groups.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGet fetches a group with creator and members expanded.
// An unknown group is a 404: the query itself yields an empty result rather
// than an error, and the page renders its placeholder off this status.
// GET /api/groups/{externalID}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, details)
}
