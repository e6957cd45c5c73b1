// Package apperr holds the sentinel errors shared by the service handlers
// and their mapping to HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNotAvailable      = errors.New("not available")
	ErrDuplicate         = errors.New("already exists")
	ErrForbidden         = errors.New("not allowed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status maps a sentinel (or an error wrapping one) to its HTTP status.
// Anything unrecognized is a 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotAvailable), errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// IsDuplicate recognizes unique-index violations across the postgres and
// sqlite drivers.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
