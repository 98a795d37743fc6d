package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/domain"
)

// SessionStore defines the interface for practice session persistence.
type SessionStore interface {
	// Create saves a new session to the store. The database enforces the
	// "one active session per (user, lesson)" invariant with a partial
	// unique index; a violation is returned as ErrActiveSessionExists so
	// callers can read back the winning row instead of erroring.
	Create(ctx context.Context, session *domain.PracticeSession) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error)

	// GetByIDForUpdate retrieves a session with a row-level lock using
	// SELECT FOR UPDATE. Use within a transaction when spawning attempts so
	// attempt numbering is serialized per session.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error)

	// GetActive retrieves the non-completed session for the (user, lesson)
	// pair, if any. Returns ErrSessionNotFound when no active session exists.
	GetActive(ctx context.Context, userID, lessonID uuid.UUID) (*domain.PracticeSession, error)

	// Complete sets the session's end time. The update only applies when the
	// session is still active; completing an already-completed session
	// reports ErrUpdateFailed so callers can fall back to the stored row.
	Complete(ctx context.Context, id uuid.UUID, endedAt time.Time) error

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) SessionStore
}
