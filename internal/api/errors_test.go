package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/practica-app/practica-api/internal/domain"
	"github.com/practica-app/practica-api/internal/service/practice"
	"github.com/practica-app/practica-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusInternalServerError, // Default to 500 for nil error
		},
		{
			name:           "lesson not found",
			err:            practice.ErrLessonNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "session not found",
			err:            practice.ErrSessionNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "wrapped session not found",
			err:            fmt.Errorf("failed to complete: %w", practice.ErrSessionNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "attempt not found",
			err:            practice.ErrAttemptNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "item not found",
			err:            practice.ErrItemNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "already answered",
			err:            practice.ErrAlreadyAnswered,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "attempt completed",
			err:            practice.ErrAttemptCompleted,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "session completed",
			err:            practice.ErrSessionCompleted,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid submission",
			err:            domain.ErrInvalidSubmission,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid session mode",
			err:            domain.ErrInvalidSessionMode,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative time spent",
			err:            domain.ErrResponseTimeSpentInvalid,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "store duplicate",
			err:            store.ErrDuplicate,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "store not found",
			err:            store.ErrNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown error",
			err:            errors.New("database exploded"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "service error wrapping known kind",
			err: &practice.ServiceError{
				Operation: "submit_answer",
				Message:   "failed to record response",
				Err:       practice.ErrAlreadyAnswered,
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name:            "nil error",
			err:             nil,
			expectedMessage: "An unexpected error occurred",
		},
		{
			name:            "session not found",
			err:             practice.ErrSessionNotFound,
			expectedMessage: "Session not found",
		},
		{
			name:            "item not found stays distinct from attempt",
			err:             practice.ErrItemNotFound,
			expectedMessage: "Exercise item not found",
		},
		{
			name:            "already answered",
			err:             practice.ErrAlreadyAnswered,
			expectedMessage: "Item already answered in this attempt",
		},
		{
			name:            "internal details are not leaked",
			err:             errors.New("pq: connection refused host=10.0.0.5 password=hunter2"),
			expectedMessage: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedMessage, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New(
		"Key: 'StartSessionRequest.LessonID' Error:Field validation for 'LessonID' failed on the 'required' tag",
	)

	msg := SanitizeValidationError(err)

	assert.Equal(t, "Invalid LessonID: required field", msg)
	assert.NotContains(t, msg, "StartSessionRequest")
}
