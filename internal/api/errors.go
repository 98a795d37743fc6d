package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/practica-app/practica-api/internal/domain"
	"github.com/practica-app/practica-api/internal/service/practice"
	"github.com/practica-app/practica-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors. Attempt-not-found and item-not-found stay distinct
	// kinds above this layer; both map to 404 with distinct messages.
	case errors.Is(err, practice.ErrLessonNotFound),
		errors.Is(err, practice.ErrSessionNotFound),
		errors.Is(err, practice.ErrAttemptNotFound),
		errors.Is(err, practice.ErrItemNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors: transitions that already happened
	case errors.Is(err, practice.ErrAlreadyAnswered),
		errors.Is(err, practice.ErrAttemptCompleted),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Invalid state / bad request errors
	case errors.Is(err, practice.ErrSessionCompleted),
		errors.Is(err, domain.ErrInvalidSubmission),
		errors.Is(err, domain.ErrResponseTimeSpentInvalid),
		errors.Is(err, domain.ErrInvalidSessionMode),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, practice.ErrLessonNotFound):
		return "Lesson not found"

	case errors.Is(err, practice.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, practice.ErrAttemptNotFound):
		return "Attempt not found"

	case errors.Is(err, practice.ErrItemNotFound):
		return "Exercise item not found"

	case errors.Is(err, practice.ErrAlreadyAnswered):
		return "Item already answered in this attempt"

	case errors.Is(err, practice.ErrAttemptCompleted):
		return "Attempt already completed"

	case errors.Is(err, practice.ErrSessionCompleted):
		return "Session already completed"

	case errors.Is(err, domain.ErrInvalidSubmission):
		return "Submission must carry exactly one of text or option"

	case errors.Is(err, domain.ErrResponseTimeSpentInvalid):
		return "Time spent must be non-negative"

	case errors.Is(err, domain.ErrInvalidSessionMode):
		return "Invalid session mode"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'StartSessionRequest.LessonID' Error:Field
		// validation for 'LessonID' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid identifier format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gte":
		return "value too small"
	default:
		return "validation failed"
	}
}
