package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/civicreach/audience-manager/internal/domain"
	"github.com/google/uuid"
)

// bannerShowFor is the display duration hint (ms) attached to errors the
// client surfaces as transient banners.
const bannerShowFor = 2500

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response without a banner hint.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &domain.APIError{Error: message})
}

// respondBannerError writes a JSON error response carrying the banner
// display hint.
func respondBannerError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &domain.APIError{Error: message, ShowFor: bannerShowFor})
}

// decodeJSON decodes JSON from the request body.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// generateID generates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// failMsg builds the generic 500 message for a record family, e.g.
// "Failed to update authority level".
func failMsg(verb string, kind domain.Kind) string {
	return "Failed to " + verb + " " + strings.ToLower(kind.Label())
}

// valueOr returns v, or fallback when v is empty.
func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
