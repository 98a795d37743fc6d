package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/domain"
)

// AttemptStore defines the interface for attempt persistence.
type AttemptStore interface {
	// Create saves a new attempt to the store. The database enforces unique
	// (session_id, attempt_number); a violation surfaces as ErrDuplicate.
	Create(ctx context.Context, attempt *domain.Attempt) error

	// GetByID retrieves an attempt by its unique ID.
	// Returns ErrAttemptNotFound if the attempt does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error)

	// CountBySession returns the number of attempts ever created under the
	// session, completed or not.
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error)

	// Complete records the attempt's final score and completion time. The
	// update only applies when the attempt is still active; a second
	// completion reports ErrUpdateFailed, keeping the transition one-way.
	Complete(ctx context.Context, id uuid.UUID, totalScore, maxScore int, completedAt time.Time) error

	// GetBestCompleted retrieves the completed attempt with the highest
	// total score under the session, ties broken by lowest attempt number.
	// Returns ErrAttemptNotFound when no attempt has completed.
	GetBestCompleted(ctx context.Context, sessionID uuid.UUID) (*domain.Attempt, error)

	// WithTx returns a new AttemptStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) AttemptStore
}
