package model

import (
	"errors"

	"content-backend/internal/shared/response"
	"content-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Error taxonomy for the data tier. Callers classify with errors.Is so
// wrapped errors keep their context.
var (
	// ErrNotFound - the record is absent in the tier consulted, not
	// necessarily everywhere.
	ErrNotFound = errors.New("content not found")

	// ErrUnavailable - a tier could not be reached or timed out. Always a
	// trigger to fall back, never fatal to the overall request.
	ErrUnavailable = errors.New("source store unavailable")

	// ErrInvalid - malformed write input, surfaced before any tier is
	// consulted.
	ErrInvalid = errors.New("invalid content input")

	// ErrConflict - reserved for concurrent-editor detection; not
	// currently enforced.
	ErrConflict = errors.New("content conflict")

	// ErrSnapshotIO - snapshot store I/O failed with no remaining
	// fallback; the one class that produces a user-visible failure.
	ErrSnapshotIO = errors.New("snapshot store failure")
)

// Invalid wraps a validation failure into the taxonomy.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrInvalid, err)
}

// HandleContentError maps a service error onto the HTTP surface. Returns
// true when a response was written.
func HandleContentError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrInvalid):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "The requested content does not exist")
	case errors.Is(err, ErrConflict):
		response.Conflict(c, "The content was modified by another operator")
	case errors.Is(err, ErrUnavailable):
		// Reaching a handler with a raw Unavailable means every fallback
		// tier also missed.
		response.ServiceUnavailable(c, "Content store is temporarily unavailable")
	default:
		logger.Error("unhandled content error", err)
		response.InternalServerError(c, "Internal server error")
	}

	return true
}
