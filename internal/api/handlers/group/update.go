package group

import (
	"Gather/internal/core/groups"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UpdateHandler handles group info updates
type UpdateHandler struct {
	service groups.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service groups.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

type updateGroupBody struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Image    string `json:"image,omitempty"`
}

// HandleUpdate overwrites a group's name, username, and image
// PATCH /api/groups/{externalID}
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	var body updateGroupBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid JSON body")
		return
	}

	updated, err := h.service.UpdateInfo(r.Context(), externalID, body.Name, body.Username, body.Image)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
