package handler

import (
	"net/http"
	"strconv"

	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/civicreach/audience-manager/internal/storage"
)

// TagHandler serves the flat filter tag catalog. The catalog is
// effectively read-only: POST echoes a tag back without persisting it and
// DELETE only acknowledges.
type TagHandler struct {
	store storage.Storage
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(store storage.Storage) *TagHandler {
	return &TagHandler{store: store}
}

// List returns the tag catalog, optionally narrowed by the type query
// parameter.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.ListTags(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get filters")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"filters": tags})
}

// Create validates and echoes a tag without adding it to the catalog. The
// id is derived from the current catalog size, mirroring how the catalog
// would grow if it did persist.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTagRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create filter")
		return
	}
	if req.Type == "" || req.Value == "" {
		respondError(w, http.StatusBadRequest, "Type and value are required fields")
		return
	}

	count, err := h.store.CountTags(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create filter")
		return
	}
	tag := &domain.Tag{
		ID:           strconv.Itoa(count + 1),
		Type:         req.Type,
		Value:        req.Value,
		ContactCount: req.ContactCount,
	}
	respondJSON(w, http.StatusOK, map[string]any{"filter": tag})
}

// Delete acknowledges a deletion without touching the catalog.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Filter ID is required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Filter " + id + " deleted",
	})
}
