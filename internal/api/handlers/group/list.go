package group

import (
	"Gather/internal/core/groups"
	"net/http"
	"strconv"
)

// ListHandler handles group listing and search
type ListHandler struct {
	service groups.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service groups.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleList lists groups with optional case-insensitive search
// GET /api/groups?search={text}&page={n}&pageSize={n}&sort={asc|desc}
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
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

	pageSize := groups.DefaultPageSize
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

	sort := query.Get("sort")
	if sort != "" && sort != "asc" && sort != "desc" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid sort value. Must be: asc or desc")
		return
	}

	result, err := h.service.List(r.Context(), groups.ListGroupsRequest{
		SearchText: query.Get("search"),
		PageNumber: page,
		PageSize:   pageSize,
		SortOrder:  sort,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
