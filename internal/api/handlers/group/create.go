package group

import (
	"Gather/internal/api/middleware"
	"Gather/internal/core/groups"
	"encoding/json"
	"net/http"
)

// CreateHandler handles group creation
type CreateHandler struct {
	service groups.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service groups.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

type createGroupBody struct {
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Image      string `json:"image,omitempty"`
	Bio        string `json:"bio,omitempty"`
}

// HandleCreate creates a group owned by the acting user
// POST /api/groups
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.ViewerExternalID(r)
	if viewerID == "" {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var body createGroupBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid JSON body")
		return
	}

	created, err := h.service.CreateGroup(r.Context(), groups.CreateGroupRequest{
		ExternalID:        body.ExternalID,
		Name:              body.Name,
		Username:          body.Username,
		Image:             body.Image,
		Bio:               body.Bio,
		CreatorExternalID: viewerID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
