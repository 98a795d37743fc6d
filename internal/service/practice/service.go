// Package practice implements the practice session and attempt evaluation
// engine: session lifecycle with deduplicated starts, attempt spawning with
// contiguous numbering, exactly-once answer grading, and session-level score
// aggregation.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/domain"
)

// AttemptAnswer is one entry in a bulk attempt submission.
type AttemptAnswer struct {
	ItemID uuid.UUID               `json:"item_id"`
	Answer domain.AnswerSubmission `json:"answer"`
}

// AnswerResult is the verdict returned for a single graded answer.
type AnswerResult struct {
	IsCorrect     bool    `json:"is_correct"`
	ScoreAwarded  int     `json:"score_awarded"`
	CorrectAnswer *string `json:"correct_answer,omitempty"`
}

// AnswerDetail is the per-item verdict inside a bulk attempt result.
// AlreadyAnswered marks items whose stored response predates this request;
// their persistence was skipped but their evaluation still counts toward the
// returned totals.
type AnswerDetail struct {
	ItemID          uuid.UUID `json:"item_id"`
	IsCorrect       bool      `json:"is_correct"`
	ScoreAwarded    int       `json:"score_awarded"`
	CorrectAnswer   *string   `json:"correct_answer,omitempty"`
	AlreadyAnswered bool      `json:"already_answered,omitempty"`
}

// AttemptResult is the outcome of submitting a whole attempt.
type AttemptResult struct {
	AttemptID  uuid.UUID      `json:"attempt_id"`
	TotalScore int            `json:"total_score"`
	MaxScore   int            `json:"max_score"`
	Percentage int            `json:"percentage"`
	Details    []AnswerDetail `json:"details"`
}

// AttemptDetail pairs an attempt with every response recorded under it, in
// the order the answers were graded.
type AttemptDetail struct {
	Attempt   *domain.Attempt    `json:"attempt"`
	Responses []*domain.Response `json:"responses"`
}

// SessionSummary is the session-level outcome computed at completion time.
// BestScore is the maximum total score among completed attempts (0 if none
// completed); TotalAttempts counts every attempt ever created.
type SessionSummary struct {
	SessionID     uuid.UUID `json:"session_id"`
	LessonID      uuid.UUID `json:"lesson_id"`
	EndedAt       time.Time `json:"ended_at"`
	BestScore     int       `json:"best_score"`
	TotalAttempts int       `json:"total_attempts"`
}

// PracticeService owns the lifecycle of practice sessions and their graded
// attempts.
type PracticeService interface {
	// StartSession returns the existing active session for (user, lesson) or
	// creates a new one. Repeated client retries never create duplicates;
	// the race between concurrent starts is resolved by the store's
	// uniqueness constraint, with the loser reading back the winner's row.
	//
	// Returns ErrLessonNotFound when the lesson is not in the catalog.
	StartSession(
		ctx context.Context,
		userID, lessonID uuid.UUID,
		mode domain.SessionMode,
	) (*domain.PracticeSession, error)

	// StartAttempt creates the next attempt under the session. Attempt
	// numbers are 1-based, contiguous, and never reused, even when earlier
	// attempts were abandoned.
	//
	// Returns ErrSessionNotFound or ErrSessionCompleted.
	StartAttempt(ctx context.Context, sessionID uuid.UUID) (*domain.Attempt, error)

	// SubmitAnswer grades a single answer and records it. A second
	// submission for the same (attempt, item) fails with ErrAlreadyAnswered;
	// the prior result is neither returned nor overwritten, so clients see
	// double-submission instead of having it masked.
	//
	// Returns ErrAttemptNotFound, ErrAttemptCompleted, ErrItemNotFound, or
	// ErrAlreadyAnswered. Attempt and item lookups fail with distinct kinds
	// so callers can tell a bad attempt id from a bad item id.
	SubmitAnswer(
		ctx context.Context,
		attemptID, itemID uuid.UUID,
		sub domain.AnswerSubmission,
	) (*AnswerResult, error)

	// SubmitAttempt grades a whole attempt's worth of answers at once (the
	// offline-then-sync flow) and completes the attempt. Items answered
	// before this request are skipped for persistence only; their evaluation
	// still appears in Details and the score totals. Completion is one-way:
	// a second call fails with ErrAttemptCompleted and leaves the recorded
	// score untouched.
	SubmitAttempt(
		ctx context.Context,
		attemptID uuid.UUID,
		answers []AttemptAnswer,
	) (*AttemptResult, error)

	// GetSession retrieves a session owned by userID. A session owned by
	// another user is reported as ErrSessionNotFound.
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.PracticeSession, error)

	// GetAttempt retrieves an attempt and its recorded responses. Ownership
	// is checked through the parent session; an attempt under another user's
	// session is reported as ErrAttemptNotFound.
	GetAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*AttemptDetail, error)

	// CompleteSession ends the session and returns its summary. Completing
	// an already-completed session returns the stored end time without side
	// effects. A session not owned by userID is reported as
	// ErrSessionNotFound, indistinguishable from nonexistence.
	CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionSummary, error)
}

// Common error types for PracticeService
var (
	// ErrLessonNotFound indicates that the lesson does not exist in the catalog.
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrSessionNotFound indicates that the session does not exist or is not
	// owned by the caller; the two cases are deliberately indistinguishable.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionCompleted indicates that the session has already ended and
	// can no longer spawn attempts.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrAttemptNotFound indicates that the attempt does not exist.
	ErrAttemptNotFound = errors.New("attempt not found")

	// ErrAttemptCompleted indicates that the attempt has already been
	// completed and its score is frozen.
	ErrAttemptCompleted = errors.New("attempt already completed")

	// ErrItemNotFound indicates that the exercise item does not exist in the
	// catalog. Kept distinct from ErrAttemptNotFound.
	ErrItemNotFound = errors.New("exercise item not found")

	// ErrAlreadyAnswered indicates that a response already exists for the
	// (attempt, item) pair.
	ErrAlreadyAnswered = errors.New("item already answered in this attempt")
)

// ServiceError wraps errors from the practice service with operation context,
// letting consumers differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_session")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError creates a ServiceError for the given operation.
func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
