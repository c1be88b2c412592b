package handler

import (
	"errors"
	"net/http"

	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/civicreach/audience-manager/internal/storage"
	"github.com/go-chi/chi/v5"
)

// FilterGroupHandler handles the group endpoints nested under a record.
// Group edits are read-modify-write: load the record, mutate the group
// tree in memory, write the whole record back.
type FilterGroupHandler struct {
	store storage.Storage
	kind  domain.Kind
}

// NewFilterGroupHandler creates a new FilterGroupHandler.
func NewFilterGroupHandler(store storage.Storage, kind domain.Kind) *FilterGroupHandler {
	return &FilterGroupHandler{store: store, kind: kind}
}

// Create appends an empty group to the record.
func (h *FilterGroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}

	var req domain.FilterGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create filter group")
		return
	}

	op := req.Operator
	if h.kind.StrictOperators() {
		if !domain.ValidGroupOperator(op) {
			respondBannerError(w, http.StatusBadRequest, "Valid operator (AND or OR) is required")
			return
		}
	} else if op == "" {
		op = domain.OperatorOr
	}

	group := domain.FilterGroup{
		ID:       generateID(),
		Operator: op,
		Filters:  []domain.Filter{},
	}
	rec.AddGroup(group)

	if err := h.store.UpdateRecord(r.Context(), h.kind, rec); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create filter group")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"filterGroup":     group,
		h.kind.Singular(): rec,
	})
}

// Update changes a group's operator. An absent operator leaves the group
// as it was.
func (h *FilterGroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}

	var req domain.FilterGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update filter group")
		return
	}

	groupID := chi.URLParam(r, "groupId")
	if rec.FindGroup(groupID) == nil {
		respondBannerError(w, http.StatusNotFound, "Filter group not found")
		return
	}
	if h.kind.StrictOperators() && req.Operator != "" && !domain.ValidGroupOperator(req.Operator) {
		respondBannerError(w, http.StatusBadRequest, "Valid operator (AND or OR) is required")
		return
	}

	group, err := rec.SetGroupOperator(groupID, req.Operator)
	if err != nil {
		respondBannerError(w, http.StatusNotFound, "Filter group not found")
		return
	}

	if err := h.store.UpdateRecord(r.Context(), h.kind, rec); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update filter group")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		h.kind.Singular(): rec,
		"filterGroup":     group,
	})
}

// Delete removes a group and every filter inside it.
func (h *FilterGroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}

	removed, err := rec.RemoveGroup(chi.URLParam(r, "groupId"))
	if err != nil {
		respondBannerError(w, http.StatusNotFound, "Filter group not found")
		return
	}

	if err := h.store.UpdateRecord(r.Context(), h.kind, rec); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete filter group")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		h.kind.Singular(): rec,
		"deletedGroup":    removed,
	})
}

func (h *FilterGroupHandler) loadRecord(w http.ResponseWriter, r *http.Request) (*domain.Record, bool) {
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
