package handler

import (
	"net/http"

	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/civicreach/audience-manager/internal/storage"
)

// OnboardingHandler stores and serves the single process-wide onboarding
// submission.
type OnboardingHandler struct {
	store storage.Storage
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(store storage.Storage) *OnboardingHandler {
	return &OnboardingHandler{store: store}
}

// Submit saves the wizard's form data, replacing any previous submission.
func (h *OnboardingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.OnboardingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBannerError(w, http.StatusInternalServerError, "Failed to process onboarding data")
		return
	}
	if req.FormData == nil {
		respondBannerError(w, http.StatusBadRequest, "Form data is required")
		return
	}

	if err := h.store.SaveOnboarding(r.Context(), req.FormData); err != nil {
		respondBannerError(w, http.StatusInternalServerError, "Failed to process onboarding data")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Onboarding data saved successfully",
		"data":    req.FormData,
	})
}

// Get returns the last saved submission, or an empty object when nothing
// has been submitted yet.
func (h *OnboardingHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.store.GetOnboarding(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get onboarding data")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": form})
}
