package domain

import "errors"

// Common errors used throughout the application.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// APIError is the wire shape of an error response. ShowFor is a display
// duration hint in milliseconds for transient client banners; routes that
// never carried it omit it.
type APIError struct {
	Error   string `json:"error"`
	ShowFor int    `json:"showFor,omitempty"`
}
