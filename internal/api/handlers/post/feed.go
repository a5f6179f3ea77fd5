package post

import (
	"Gather/internal/core/posts"
	"net/http"
	"strconv"
)

// FeedHandler handles the top-level post feed
type FeedHandler struct {
	service posts.Service
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(service posts.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

// HandleFeed lists top-level posts, newest first
// GET /api/posts?page={n}&pageSize={n}
func (h *FeedHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid page parameter: must be a positive integer")
			return
		}
		page = p
	}

	pageSize := posts.DefaultPageSize
	if sizeStr := query.Get("pageSize"); sizeStr != "" {
		s, err := strconv.Atoi(sizeStr)
		if err != nil || s < 1 {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid pageSize parameter: must be a positive integer")
			return
		}
		if s > 100 {
			s = 100
		}
		pageSize = s
	}

	feed, err := h.service.ListTopLevel(r.Context(), page, pageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, feed)
}
