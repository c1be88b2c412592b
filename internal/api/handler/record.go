package handler

import (
	"errors"
	"net/http"

	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/civicreach/audience-manager/internal/storage"
	"github.com/go-chi/chi/v5"
)

// RecordHandler handles collection and item endpoints for one record
// family.
type RecordHandler struct {
	store storage.Storage
	kind  domain.Kind
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(store storage.Storage, kind domain.Kind) *RecordHandler {
	return &RecordHandler{store: store, kind: kind}
}

// List returns the full collection, no filtering or pagination.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListRecords(r.Context(), h.kind)
	if err != nil {
		respondError(w, http.StatusInternalServerError, failMsg("get", h.kind)+"s")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{h.kind.Plural(): records})
}

// Create appends a new record. Every field is optional; missing fields get
// placeholder defaults and create never rejects a payload.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusInternalServerError, failMsg("create", h.kind))
		return
	}

	rec := &domain.Record{
		ID:           generateID(),
		Title:        valueOr(req.Title, h.kind.DefaultTitle()),
		Key:          valueOr(req.Key, h.kind.DefaultKey()),
		Contacts:     req.Contacts,
		FilterGroups: req.FilterGroups,
	}
	if rec.Contacts == "" {
		rec.Contacts = h.createContacts()
	}
	if rec.FilterGroups == nil {
		rec.FilterGroups = []domain.FilterGroup{}
	}

	if err := h.store.CreateRecord(r.Context(), h.kind, rec); err != nil {
		respondError(w, http.StatusInternalServerError, failMsg("create", h.kind))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{h.kind.Singular(): rec})
}

// Get fetches one record by id.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.store.GetRecord(r.Context(), h.kind, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondBannerError(w, http.StatusNotFound, h.kind.Label()+" not found")
			return
		}
		respondError(w, http.StatusInternalServerError, failMsg("get", h.kind))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{h.kind.Singular(): rec})
}

// Update partial-merges the payload over the record. When the id does not
// exist a new record is created under that id instead of returning 404.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusInternalServerError, failMsg("update", h.kind))
		return
	}

	rec, err := h.store.GetRecord(r.Context(), h.kind, id)
	if errors.Is(err, domain.ErrNotFound) {
		h.upsert(w, r, id, &req)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, failMsg("update", h.kind))
		return
	}

	if req.Title != "" {
		rec.Title = req.Title
	}
	if req.Key != "" {
		rec.Key = req.Key
	}
	if req.Contacts != nil && (*req.Contacts != "" || h.kind.MergesEmptyContacts()) {
		rec.Contacts = *req.Contacts
	}
	if req.FilterGroups != nil {
		rec.FilterGroups = *req.FilterGroups
	}

	if err := h.store.UpdateRecord(r.Context(), h.kind, rec); err != nil {
		respondError(w, http.StatusInternalServerError, failMsg("update", h.kind))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{h.kind.Singular(): rec})
}

// Delete removes a record and returns it.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.store.DeleteRecord(r.Context(), h.kind, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondBannerError(w, http.StatusNotFound, h.kind.Label()+" not found")
			return
		}
		respondError(w, http.StatusInternalServerError, failMsg("delete", h.kind))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		h.kind.DeletedKey(): rec,
	})
}

// upsert creates a record under a caller-chosen id (the PUT fallback).
func (h *RecordHandler) upsert(w http.ResponseWriter, r *http.Request, id string, req *domain.UpdateRecordRequest) {
	rec := &domain.Record{
		ID:    id,
		Title: valueOr(req.Title, h.kind.DefaultTitle()),
		Key:   valueOr(req.Key, h.kind.DefaultKey()),
	}
	if req.Contacts != nil && *req.Contacts != "" {
		rec.Contacts = *req.Contacts
	} else {
		rec.Contacts = h.upsertContacts()
	}
	if req.FilterGroups != nil {
		rec.FilterGroups = *req.FilterGroups
	}
	if rec.FilterGroups == nil {
		rec.FilterGroups = []domain.FilterGroup{}
	}

	if err := h.store.CreateRecord(r.Context(), h.kind, rec); err != nil {
		respondError(w, http.StatusInternalServerError, failMsg("update", h.kind))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{h.kind.Singular(): rec})
}

// createContacts is the placeholder count for POST-created records: a bare
// small number for Personas, a formatted count for Authority Levels.
func (h *RecordHandler) createContacts() string {
	if h.kind == domain.KindAuthorityLevel {
		return domain.RandomContactCount()
	}
	return domain.SmallContactCount()
}

// upsertContacts is the placeholder count for PUT-created records.
func (h *RecordHandler) upsertContacts() string {
	if h.kind == domain.KindAuthorityLevel {
		return domain.RandomContactCount()
	}
	return "0"
}
