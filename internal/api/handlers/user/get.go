package user

import (
	"Gather/internal/core/users"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetHandler handles single user lookups
type GetHandler struct {
	service users.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service users.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGet fetches a user by external id
// GET /api/users/{externalID}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	found, err := h.service.GetByExternalID(r.Context(), externalID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, found)
}
