package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/domain"
	"github.com/practica-app/practica-api/internal/platform/logger"
	"github.com/practica-app/practica-api/internal/store"
)

// PostgresAttemptStore implements the store.AttemptStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates a new PostgreSQL implementation of the
// AttemptStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

// Ensure PostgresAttemptStore implements store.AttemptStore interface
var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// Create implements store.AttemptStore.Create
func (s *PostgresAttemptStore) Create(ctx context.Context, attempt *domain.Attempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		log.Warn("attempt validation failed during create",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return err
	}

	query := `
		INSERT INTO attempts (id, session_id, attempt_number, total_score, max_score, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		attempt.ID,
		attempt.SessionID,
		attempt.Number,
		attempt.TotalScore,
		attempt.MaxScore,
		attempt.CompletedAt,
		attempt.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()),
			slog.String("session_id", attempt.SessionID.String()),
			slog.Int("attempt_number", attempt.Number))
		return MapError(err)
	}

	log.Info("attempt created",
		slog.String("attempt_id", attempt.ID.String()),
		slog.String("session_id", attempt.SessionID.String()),
		slog.Int("attempt_number", attempt.Number))
	return nil
}

// GetByID implements store.AttemptStore.GetByID
func (s *PostgresAttemptStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error) {
	query := `
		SELECT id, session_id, attempt_number, total_score, max_score, completed_at, created_at
		FROM attempts
		WHERE id = $1
	`
	return s.scanAttempt(ctx, query, id)
}

// CountBySession implements store.AttemptStore.CountBySession
func (s *PostgresAttemptStore) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM attempts WHERE session_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// Complete implements store.AttemptStore.Complete
// The conditional update keeps the Active -> Completed transition one-way:
// zero affected rows means the attempt is already completed (or gone) and is
// reported as store.ErrUpdateFailed.
func (s *PostgresAttemptStore) Complete(
	ctx context.Context,
	id uuid.UUID,
	totalScore, maxScore int,
	completedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE attempts
		SET total_score = $1, max_score = $2, completed_at = $3
		WHERE id = $4 AND completed_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query, totalScore, maxScore, completedAt, id)
	if err != nil {
		log.Error("failed to complete attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "attempt"); err != nil {
		return fmt.Errorf("%w: attempt %s is not active", store.ErrUpdateFailed, id)
	}

	log.Info("attempt completed",
		slog.String("attempt_id", id.String()),
		slog.Int("total_score", totalScore),
		slog.Int("max_score", maxScore))
	return nil
}

// GetBestCompleted implements store.AttemptStore.GetBestCompleted
// Ties on total score resolve to the lowest attempt number so the best
// attempt is stable under re-query.
func (s *PostgresAttemptStore) GetBestCompleted(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.Attempt, error) {
	query := `
		SELECT id, session_id, attempt_number, total_score, max_score, completed_at, created_at
		FROM attempts
		WHERE session_id = $1 AND completed_at IS NOT NULL
		ORDER BY total_score DESC, attempt_number ASC
		LIMIT 1
	`
	return s.scanAttempt(ctx, query, sessionID)
}

// WithTx implements store.AttemptStore.WithTx
func (s *PostgresAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &PostgresAttemptStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanAttempt runs a single-row attempt query and maps the result.
func (s *PostgresAttemptStore) scanAttempt(
	ctx context.Context,
	query string,
	args ...any,
) (*domain.Attempt, error) {
	var attempt domain.Attempt
	var completedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&attempt.ID,
		&attempt.SessionID,
		&attempt.Number,
		&attempt.TotalScore,
		&attempt.MaxScore,
		&completedAt,
		&attempt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAttemptNotFound
		}
		return nil, MapError(err)
	}

	if completedAt.Valid {
		t := completedAt.Time
		attempt.CompletedAt = &t
	}

	return &attempt, nil
}
