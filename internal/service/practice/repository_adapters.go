package practice

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/domain"
	"github.com/practica-app/practica-api/internal/store"
)

// SessionRepository defines the interface for repositories that can provide
// session data and support transactions.
type SessionRepository interface {
	// Create saves a new session.
	Create(ctx context.Context, session *domain.PracticeSession) error

	// GetByID retrieves a session by its unique ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error)

	// GetByIDForUpdate retrieves a session with a row-level lock.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error)

	// GetActive retrieves the non-completed session for (user, lesson).
	GetActive(ctx context.Context, userID, lessonID uuid.UUID) (*domain.PracticeSession, error)

	// Complete sets the session's end time if it is still active.
	Complete(ctx context.Context, id uuid.UUID, endedAt time.Time) error

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SessionRepository

	// DB returns the underlying database connection.
	DB() *sql.DB
}

// AttemptRepository defines the interface for repositories that can provide
// attempt data and support transactions.
type AttemptRepository interface {
	// Create saves a new attempt.
	Create(ctx context.Context, attempt *domain.Attempt) error

	// GetByID retrieves an attempt by its unique ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error)

	// CountBySession counts all attempts ever created under the session.
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error)

	// Complete records the final score if the attempt is still active.
	Complete(ctx context.Context, id uuid.UUID, totalScore, maxScore int, completedAt time.Time) error

	// GetBestCompleted retrieves the best completed attempt for the session.
	GetBestCompleted(ctx context.Context, sessionID uuid.UUID) (*domain.Attempt, error)

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AttemptRepository
}

// ResponseRepository defines the interface for repositories that can record
// graded responses and support transactions.
type ResponseRepository interface {
	// Create saves a new graded response.
	Create(ctx context.Context, response *domain.Response) error

	// CreateIfAbsent saves a new graded response unless one already exists
	// for the (attempt, item) pair, reporting whether a row was written.
	CreateIfAbsent(ctx context.Context, response *domain.Response) (bool, error)

	// ListByAttempt retrieves every response recorded under the attempt.
	ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]*domain.Response, error)

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ResponseRepository
}

// NewSessionRepositoryAdapter creates a new adapter that allows a
// store.SessionStore to be used where a SessionRepository is expected.
func NewSessionRepositoryAdapter(sessionStore store.SessionStore, db *sql.DB) SessionRepository {
	return &sessionRepositoryAdapter{
		sessionStore: sessionStore,
		db:           db,
	}
}

// sessionRepositoryAdapter adapts a store.SessionStore to the SessionRepository interface
type sessionRepositoryAdapter struct {
	sessionStore store.SessionStore
	db           *sql.DB
}

func (a *sessionRepositoryAdapter) Create(ctx context.Context, session *domain.PracticeSession) error {
	return a.sessionStore.Create(ctx, session)
}

func (a *sessionRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error) {
	return a.sessionStore.GetByID(ctx, id)
}

func (a *sessionRepositoryAdapter) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.PracticeSession, error) {
	return a.sessionStore.GetByIDForUpdate(ctx, id)
}

func (a *sessionRepositoryAdapter) GetActive(
	ctx context.Context,
	userID, lessonID uuid.UUID,
) (*domain.PracticeSession, error) {
	return a.sessionStore.GetActive(ctx, userID, lessonID)
}

func (a *sessionRepositoryAdapter) Complete(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	return a.sessionStore.Complete(ctx, id, endedAt)
}

func (a *sessionRepositoryAdapter) WithTx(tx *sql.Tx) SessionRepository {
	return &sessionRepositoryAdapter{
		sessionStore: a.sessionStore.WithTx(tx),
		db:           a.db,
	}
}

func (a *sessionRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewAttemptRepositoryAdapter creates a new adapter that allows a
// store.AttemptStore to be used where an AttemptRepository is expected.
func NewAttemptRepositoryAdapter(attemptStore store.AttemptStore) AttemptRepository {
	return &attemptRepositoryAdapter{
		attemptStore: attemptStore,
	}
}

// attemptRepositoryAdapter adapts a store.AttemptStore to the AttemptRepository interface
type attemptRepositoryAdapter struct {
	attemptStore store.AttemptStore
}

func (a *attemptRepositoryAdapter) Create(ctx context.Context, attempt *domain.Attempt) error {
	return a.attemptStore.Create(ctx, attempt)
}

func (a *attemptRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error) {
	return a.attemptStore.GetByID(ctx, id)
}

func (a *attemptRepositoryAdapter) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	return a.attemptStore.CountBySession(ctx, sessionID)
}

func (a *attemptRepositoryAdapter) Complete(
	ctx context.Context,
	id uuid.UUID,
	totalScore, maxScore int,
	completedAt time.Time,
) error {
	return a.attemptStore.Complete(ctx, id, totalScore, maxScore, completedAt)
}

func (a *attemptRepositoryAdapter) GetBestCompleted(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.Attempt, error) {
	return a.attemptStore.GetBestCompleted(ctx, sessionID)
}

func (a *attemptRepositoryAdapter) WithTx(tx *sql.Tx) AttemptRepository {
	return &attemptRepositoryAdapter{
		attemptStore: a.attemptStore.WithTx(tx),
	}
}

// NewResponseRepositoryAdapter creates a new adapter that allows a
// store.ResponseStore to be used where a ResponseRepository is expected.
func NewResponseRepositoryAdapter(responseStore store.ResponseStore) ResponseRepository {
	return &responseRepositoryAdapter{
		responseStore: responseStore,
	}
}

// responseRepositoryAdapter adapts a store.ResponseStore to the ResponseRepository interface
type responseRepositoryAdapter struct {
	responseStore store.ResponseStore
}

func (a *responseRepositoryAdapter) Create(ctx context.Context, response *domain.Response) error {
	return a.responseStore.Create(ctx, response)
}

func (a *responseRepositoryAdapter) CreateIfAbsent(
	ctx context.Context,
	response *domain.Response,
) (bool, error) {
	return a.responseStore.CreateIfAbsent(ctx, response)
}

func (a *responseRepositoryAdapter) ListByAttempt(
	ctx context.Context,
	attemptID uuid.UUID,
) ([]*domain.Response, error) {
	return a.responseStore.ListByAttempt(ctx, attemptID)
}

func (a *responseRepositoryAdapter) WithTx(tx *sql.Tx) ResponseRepository {
	return &responseRepositoryAdapter{
		responseStore: a.responseStore.WithTx(tx),
	}
}
