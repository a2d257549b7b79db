// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kabaddi-live/scoring-service/internal/engine"
	"github.com/kabaddi-live/scoring-service/internal/repository"
	"github.com/kabaddi-live/scoring-service/internal/service"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, ErrorPayload{Error: "already_exists"}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, ErrorPayload{Error: "conflict"}
	case errors.Is(err, engine.ErrMatchNotLive):
		return http.StatusConflict, ErrorPayload{Error: "match_not_live", Message: err.Error()}
	case errors.Is(err, engine.ErrBadTransition):
		return http.StatusConflict, ErrorPayload{Error: "bad_transition", Message: err.Error()}
	case errors.Is(err, engine.ErrRedoConflict):
		return http.StatusConflict, ErrorPayload{Error: "redo_conflict", Message: err.Error()}
	case errors.Is(err, engine.ErrNothingToUndo), errors.Is(err, engine.ErrNothingToRedo):
		return http.StatusConflict, ErrorPayload{Error: "nothing_to_apply", Message: err.Error()}
	case errors.Is(err, engine.ErrTimeoutsExhausted):
		return http.StatusConflict, ErrorPayload{Error: "timeouts_exhausted", Message: err.Error()}
	case errors.Is(err, service.ErrNoShootout):
		return http.StatusNotFound, ErrorPayload{Error: "no_shootout", Message: err.Error()}
	case errors.Is(err, engine.ErrWrongStep), errors.Is(err, engine.ErrSelectionCount),
		errors.Is(err, engine.ErrNotEligible), errors.Is(err, engine.ErrShootoutFinished):
		return http.StatusConflict, ErrorPayload{Error: "shootout_step", Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
