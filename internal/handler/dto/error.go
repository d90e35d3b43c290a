package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/wsschedule/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Workspace errors
	case errors.Is(err, domain.ErrWorkspaceNotFound):
		return http.StatusNotFound, "WORKSPACE_NOT_FOUND", message
	case errors.Is(err, domain.ErrUndefinedWorkspace):
		return http.StatusNotFound, "WORKSPACE_NOT_FOUND", message
	case errors.Is(err, domain.ErrWorkspaceNotRunning):
		return http.StatusConflict, "WORKSPACE_NOT_RUNNING", message
	case errors.Is(err, domain.ErrNoDeadline):
		return http.StatusConflict, "NO_DEADLINE", message

	// Validation errors
	case errors.Is(err, domain.ErrDeadlineOutOfRange):
		return http.StatusUnprocessableEntity, "DEADLINE_OUT_OF_RANGE", message
	case errors.Is(err, domain.ErrInvalidTimeFormat):
		return http.StatusUnprocessableEntity, "INVALID_TIME_FORMAT", message
	case errors.Is(err, domain.ErrInvalidTimezone):
		return http.StatusUnprocessableEntity, "INVALID_TIMEZONE", message
	case errors.Is(err, domain.ErrInvalidSchedule):
		return http.StatusUnprocessableEntity, "INVALID_SCHEDULE", message
	case errors.Is(err, domain.ErrInvalidTTL):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
