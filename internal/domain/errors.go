package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidSessionMode is returned when a session mode is not one of
	// the recognized values.
	ErrInvalidSessionMode = errors.New("invalid session mode")

	// ErrInvalidSubmission is returned when an answer submission does not
	// carry exactly one of free text or a selected option.
	ErrInvalidSubmission = errors.New("submission must carry exactly one of text or option")
)
