package group

import (
	"Gather/internal/api/middleware"
	"Gather/internal/core/groups"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MembersHandler handles group membership changes
type MembersHandler struct {
	service groups.Service
}

// NewMembersHandler creates a new members handler
func NewMembersHandler(service groups.Service) *MembersHandler {
	return &MembersHandler{service: service}
}

type addMemberBody struct {
	UserExternalID string `json:"userExternalId,omitempty"`
}

// HandleAdd adds a member to a group. With no body user id, the acting user
// joins the group themselves.
// POST /api/groups/{externalID}/members
func (h *MembersHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	groupExternalID := chi.URLParam(r, "externalID")

	var body addMemberBody
	if r.Body != nil {
		// An empty body is fine; only malformed JSON is rejected
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid JSON body")
			return
		}
	}

	memberExternalID := body.UserExternalID
	if memberExternalID == "" {
		memberExternalID = middleware.ViewerExternalID(r)
	}
	if memberExternalID == "" {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if err := h.service.AddMember(r.Context(), groupExternalID, memberExternalID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleRemove removes a member from a group
// DELETE /api/groups/{externalID}/members/{userExternalID}
func (h *MembersHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	groupExternalID := chi.URLParam(r, "externalID")
	userExternalID := chi.URLParam(r, "userExternalID")

	if err := h.service.RemoveMember(r.Context(), userExternalID, groupExternalID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
