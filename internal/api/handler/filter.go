package handler

import (
	"errors"
	"net/http"

	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/civicreach/audience-manager/internal/storage"
	"github.com/go-chi/chi/v5"
)

// FilterHandler handles the filter endpoints nested under a record.
type FilterHandler struct {
	store storage.Storage
	kind  domain.Kind
}

// NewFilterHandler creates a new FilterHandler.
func NewFilterHandler(store storage.Storage, kind domain.Kind) *FilterHandler {
	return &FilterHandler{store: store, kind: kind}
}

// Create adds a filter to the record. The target group comes from the
// optional groupId: an existing group id, the "new" sentinel for a fresh
// group, or nothing for the record's first group. Adding a filter also
// regenerates the record's display contact count.
func (h *FilterHandler) Create(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}

	var req domain.CreateFilterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create filter")
		return
	}
	if req.Type == "" || req.Operator == "" || req.Value == "" {
		respondBannerError(w, http.StatusBadRequest, "Type, operator, and value are required fields")
		return
	}

	filter := domain.Filter{
		ID:       generateID(),
		Type:     req.Type,
		Operator: req.Operator,
		Value:    req.Value,
	}
	if _, err := rec.PlaceFilter(filter, req.GroupID, generateID()); err != nil {
		respondBannerError(w, http.StatusNotFound, "Filter group not found")
		return
	}
	rec.Contacts = domain.RandomContactCount()

	if err := h.store.UpdateRecord(r.Context(), h.kind, rec); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create filter")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"filter":          filter,
		h.kind.Singular(): rec,
	})
}

// Update partial-merges type, operator and value onto an existing filter.
func (h *FilterHandler) Update(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}

	var upd domain.FilterUpdate
	if err := decodeJSON(r, &upd); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update filter")
		return
	}

	if err := rec.UpdateFilter(chi.URLParam(r, "filterId"), upd); err != nil {
		respondBannerError(w, http.StatusNotFound, "Filter not found")
		return
	}

	if err := h.store.UpdateRecord(r.Context(), h.kind, rec); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update filter")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		h.kind.Singular(): rec,
	})
}

// Delete removes a filter. A group the deletion leaves empty is removed
// along with it.
func (h *FilterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}

	if err := rec.RemoveFilter(chi.URLParam(r, "filterId")); err != nil {
		respondBannerError(w, http.StatusNotFound, "Filter not found")
		return
	}

	if err := h.store.UpdateRecord(r.Context(), h.kind, rec); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete filter")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		h.kind.Singular(): rec,
	})
}

func (h *FilterHandler) loadRecord(w http.ResponseWriter, r *http.Request) (*domain.Record, bool) {
	rec, err := h.store.GetRecord(r.Context(), h.kind, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondBannerError(w, http.StatusNotFound, h.kind.Label()+" not found")
		} else {
			respondError(w, http.StatusInternalServerError, failMsg("get", h.kind))
		}
		return nil, false
	}
	return rec, true
}
