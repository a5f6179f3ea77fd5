package group

import (
	"Gather/internal/core/groups"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// APIError is the JSON error envelope
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIError{Error: code, Message: message}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// writeJSON writes a JSON success response
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// handleServiceError converts group service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case groups.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NotFound", err.Error())
	case errors.Is(err, groups.ErrAlreadyMember):
		writeError(w, http.StatusConflict, "AlreadyMember", err.Error())
	case groups.IsConflict(err):
		writeError(w, http.StatusConflict, "AlreadyExists", err.Error())
	case groups.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		log.Printf("group handler error: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
