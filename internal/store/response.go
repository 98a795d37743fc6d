package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/domain"
)

// ResponseStore defines the interface for graded response persistence.
type ResponseStore interface {
	// Create saves a new response to the store. The database enforces unique
	// (attempt_id, item_id); a violation surfaces as ErrResponseExists so
	// services can translate concurrent double-submission into the
	// domain-level "already answered" signal.
	Create(ctx context.Context, response *domain.Response) error

	// CreateIfAbsent saves a new response unless one already exists for the
	// (attempt, item) pair, reporting whether a row was written. Unlike
	// Create, a duplicate is not an error and does not abort a surrounding
	// transaction, so bulk writers can skip individual items and keep going.
	CreateIfAbsent(ctx context.Context, response *domain.Response) (bool, error)

	// ListByAttempt retrieves all responses recorded under the attempt,
	// ordered by creation time.
	ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]*domain.Response, error)

	// WithTx returns a new ResponseStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ResponseStore
}
