package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Response-specific validation errors
var (
	// ErrResponseIDEmpty is returned when a response ID is empty or nil.
	ErrResponseIDEmpty = errors.New("response ID cannot be empty")

	// ErrResponseAttemptIDEmpty is returned when a response's attempt ID is empty or nil.
	ErrResponseAttemptIDEmpty = errors.New("response attempt ID cannot be empty")

	// ErrResponseItemIDEmpty is returned when a response's exercise item ID is empty or nil.
	ErrResponseItemIDEmpty = errors.New("response item ID cannot be empty")

	// ErrResponseScoreInvalid is returned when a response's awarded score is negative.
	ErrResponseScoreInvalid = errors.New("response score must be non-negative")

	// ErrResponseTimeSpentInvalid is returned when a response's time spent is negative.
	ErrResponseTimeSpentInvalid = errors.New("response time spent must be non-negative")
)

// AnswerSubmission is the learner's answer to one exercise item: either free
// text or a selected option id, exactly one populated.
type AnswerSubmission struct {
	SubmittedText    *string `json:"submitted_text,omitempty"`
	SelectedOptionID *string `json:"selected_option_id,omitempty"`
	TimeSpentMs      int     `json:"time_spent_ms"`
}

// Validate checks that the submission carries exactly one answer shape.
func (sub AnswerSubmission) Validate() error {
	if (sub.SubmittedText == nil) == (sub.SelectedOptionID == nil) {
		return ErrInvalidSubmission
	}

	if sub.TimeSpentMs < 0 {
		return ErrResponseTimeSpentInvalid
	}

	return nil
}

// Response represents a single graded answer to one exercise item within one
// attempt. For a given (attempt, item) pair at most one Response may ever
// exist; re-submission is rejected, never overwritten.
type Response struct {
	ID               uuid.UUID `json:"id"`
	AttemptID        uuid.UUID `json:"attempt_id"`
	ItemID           uuid.UUID `json:"item_id"`
	SubmittedText    *string   `json:"submitted_text,omitempty"`
	SelectedOptionID *string   `json:"selected_option_id,omitempty"`
	IsCorrect        bool      `json:"is_correct"`
	Score            int       `json:"score"`
	TimeSpentMs      int       `json:"time_spent_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewResponse creates a graded response for the given attempt and item.
// Returns an error if validation fails.
func NewResponse(
	attemptID, itemID uuid.UUID,
	sub AnswerSubmission,
	isCorrect bool,
	score int,
) (*Response, error) {
	response := &Response{
		ID:               uuid.New(),
		AttemptID:        attemptID,
		ItemID:           itemID,
		SubmittedText:    sub.SubmittedText,
		SelectedOptionID: sub.SelectedOptionID,
		IsCorrect:        isCorrect,
		Score:            score,
		TimeSpentMs:      sub.TimeSpentMs,
		CreatedAt:        time.Now().UTC(),
	}

	if err := response.Validate(); err != nil {
		return nil, err
	}

	return response, nil
}

// Validate checks if the Response has valid data.
// Returns an error if any field fails validation.
func (r *Response) Validate() error {
	if r.ID == uuid.Nil {
		return ErrResponseIDEmpty
	}

	if r.AttemptID == uuid.Nil {
		return ErrResponseAttemptIDEmpty
	}

	if r.ItemID == uuid.Nil {
		return ErrResponseItemIDEmpty
	}

	if (r.SubmittedText == nil) == (r.SelectedOptionID == nil) {
		return ErrInvalidSubmission
	}

	if r.Score < 0 {
		return ErrResponseScoreInvalid
	}

	if r.TimeSpentMs < 0 {
		return ErrResponseTimeSpentInvalid
	}

	return nil
}
