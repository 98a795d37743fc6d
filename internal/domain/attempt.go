package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Attempt-specific validation errors
var (
	// ErrAttemptIDEmpty is returned when an attempt ID is empty or nil.
	ErrAttemptIDEmpty = errors.New("attempt ID cannot be empty")

	// ErrAttemptSessionIDEmpty is returned when an attempt's session ID is empty or nil.
	ErrAttemptSessionIDEmpty = errors.New("attempt session ID cannot be empty")

	// ErrAttemptNumberInvalid is returned when an attempt number is not positive.
	ErrAttemptNumberInvalid = errors.New("attempt number must be at least 1")

	// ErrAttemptScoreInvalid is returned when an attempt's scores are negative
	// or the total exceeds the maximum.
	ErrAttemptScoreInvalid = errors.New("attempt scores must be non-negative and total <= max")
)

// Attempt represents one graded pass through a lesson's exercise items
// within a session. Numbers are 1-based and contiguous per session; once an
// attempt is completed it is immutable.
type Attempt struct {
	ID          uuid.UUID  `json:"id"`
	SessionID   uuid.UUID  `json:"session_id"`
	Number      int        `json:"number"`
	TotalScore  int        `json:"total_score"`
	MaxScore    int        `json:"max_score"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewAttempt creates a new active attempt with the given number under the
// given session. Returns an error if validation fails.
func NewAttempt(sessionID uuid.UUID, number int) (*Attempt, error) {
	attempt := &Attempt{
		ID:        uuid.New(),
		SessionID: sessionID,
		Number:    number,
		CreatedAt: time.Now().UTC(),
	}

	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	return attempt, nil
}

// Validate checks if the Attempt has valid data.
// Returns an error if any field fails validation.
func (a *Attempt) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAttemptIDEmpty
	}

	if a.SessionID == uuid.Nil {
		return ErrAttemptSessionIDEmpty
	}

	if a.Number < 1 {
		return ErrAttemptNumberInvalid
	}

	if a.TotalScore < 0 || a.MaxScore < 0 {
		return ErrAttemptScoreInvalid
	}

	if a.MaxScore > 0 && a.TotalScore > a.MaxScore {
		return ErrAttemptScoreInvalid
	}

	return nil
}

// IsCompleted reports whether the attempt has been submitted and scored.
func (a *Attempt) IsCompleted() bool {
	return a.CompletedAt != nil
}
