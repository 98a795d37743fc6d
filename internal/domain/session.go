package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionMode distinguishes why the learner opened the lesson.
type SessionMode string

// Possible session mode values
const (
	SessionModeLearn  SessionMode = "learn"
	SessionModeReview SessionMode = "review"
)

// Session-specific validation errors
var (
	// ErrSessionIDEmpty is returned when a session ID is empty or nil.
	ErrSessionIDEmpty = errors.New("session ID cannot be empty")

	// ErrSessionUserIDEmpty is returned when a session's user ID is empty or nil.
	ErrSessionUserIDEmpty = errors.New("session user ID cannot be empty")

	// ErrSessionLessonIDEmpty is returned when a session's lesson ID is empty or nil.
	ErrSessionLessonIDEmpty = errors.New("session lesson ID cannot be empty")
)

// PracticeSession represents one learner's engagement window with one lesson.
// At most one session per (user, lesson) may be active at a time; that
// invariant is enforced by the store, not here.
type PracticeSession struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	LessonID  uuid.UUID   `json:"lesson_id"`
	Mode      SessionMode `json:"mode"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   *time.Time  `json:"ended_at,omitempty"`
}

// NewPracticeSession creates a new active session for the given user and
// lesson. It generates a new UUID for the session ID and sets the start time.
// Returns an error if validation fails.
func NewPracticeSession(userID, lessonID uuid.UUID, mode SessionMode) (*PracticeSession, error) {
	session := &PracticeSession{
		ID:        uuid.New(),
		UserID:    userID,
		LessonID:  lessonID,
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the PracticeSession has valid data.
// Returns an error if any field fails validation.
func (s *PracticeSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}

	if s.LessonID == uuid.Nil {
		return ErrSessionLessonIDEmpty
	}

	switch s.Mode {
	case SessionModeLearn, SessionModeReview:
	default:
		return ErrInvalidSessionMode
	}

	return nil
}

// IsCompleted reports whether the session has ended.
func (s *PracticeSession) IsCompleted() bool {
	return s.EndedAt != nil
}
