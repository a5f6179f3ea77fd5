package user

import (
	"Gather/internal/api/middleware"
	"Gather/internal/core/users"
	"encoding/json"
	"net/http"
)

// UpsertHandler handles profile create/update
type UpsertHandler struct {
	service users.Service
}

// NewUpsertHandler creates a new upsert handler
func NewUpsertHandler(service users.Service) *UpsertHandler {
	return &UpsertHandler{service: service}
}

type upsertProfileBody struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Bio      string `json:"bio,omitempty"`
	Image    string `json:"image,omitempty"`
	Path     string `json:"path,omitempty"`
}

// HandleUpsert saves the acting user's profile, onboarding them on first save
// POST /api/users
func (h *UpsertHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.ViewerExternalID(r)
	if viewerID == "" {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var body upsertProfileBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid JSON body")
		return
	}

	saved, err := h.service.UpsertProfile(r.Context(), users.UpsertProfileRequest{
		ExternalID: viewerID,
		Username:   body.Username,
		Name:       body.Name,
		Bio:        body.Bio,
		Image:      body.Image,
		Path:       body.Path,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}
