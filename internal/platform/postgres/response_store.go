package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/domain"
	"github.com/practica-app/practica-api/internal/platform/logger"
	"github.com/practica-app/practica-api/internal/store"
)

// PostgresResponseStore implements the store.ResponseStore interface
// using a PostgreSQL database as the storage backend.
type PostgresResponseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresResponseStore creates a new PostgreSQL implementation of the
// ResponseStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresResponseStore(db store.DBTX, logger *slog.Logger) *PostgresResponseStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresResponseStore{
		db:     db,
		logger: logger.With(slog.String("component", "response_store")),
	}
}

// Ensure PostgresResponseStore implements store.ResponseStore interface
var _ store.ResponseStore = (*PostgresResponseStore)(nil)

// Create implements store.ResponseStore.Create
// The responses_attempt_item_key unique constraint guarantees at most one
// row per (attempt, item); a violation is returned as store.ErrResponseExists
// so the service layer can surface "already answered" instead of a raw
// duplicate-key error.
func (s *PostgresResponseStore) Create(ctx context.Context, response *domain.Response) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := response.Validate(); err != nil {
		log.Warn("response validation failed during create",
			slog.String("error", err.Error()),
			slog.String("response_id", response.ID.String()))
		return err
	}

	query := `
		INSERT INTO responses (id, attempt_id, item_id, submitted_text, selected_option_id,
			is_correct, score, time_spent_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		response.ID,
		response.AttemptID,
		response.ItemID,
		response.SubmittedText,
		response.SelectedOptionID,
		response.IsCorrect,
		response.Score,
		response.TimeSpentMs,
		response.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("response already exists",
				slog.String("attempt_id", response.AttemptID.String()),
				slog.String("item_id", response.ItemID.String()))
			return MapUniqueViolation(err, store.ErrResponseExists)
		}

		log.Error("failed to create response",
			slog.String("error", err.Error()),
			slog.String("response_id", response.ID.String()),
			slog.String("attempt_id", response.AttemptID.String()))
		return MapError(err)
	}

	log.Debug("response recorded",
		slog.String("response_id", response.ID.String()),
		slog.String("attempt_id", response.AttemptID.String()),
		slog.String("item_id", response.ItemID.String()),
		slog.Bool("is_correct", response.IsCorrect))
	return nil
}

// CreateIfAbsent implements store.ResponseStore.CreateIfAbsent
// ON CONFLICT DO NOTHING means a duplicate (attempt, item) pair produces no
// statement error, so a surrounding transaction stays usable after the skip.
// A plain insert would trip Postgres's transaction-abort behavior and every
// later statement in the transaction would fail with SQLSTATE 25P02.
func (s *PostgresResponseStore) CreateIfAbsent(
	ctx context.Context,
	response *domain.Response,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := response.Validate(); err != nil {
		log.Warn("response validation failed during create",
			slog.String("error", err.Error()),
			slog.String("response_id", response.ID.String()))
		return false, err
	}

	query := `
		INSERT INTO responses (id, attempt_id, item_id, submitted_text, selected_option_id,
			is_correct, score, time_spent_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (attempt_id, item_id) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		response.ID,
		response.AttemptID,
		response.ItemID,
		response.SubmittedText,
		response.SelectedOptionID,
		response.IsCorrect,
		response.Score,
		response.TimeSpentMs,
		response.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create response",
			slog.String("error", err.Error()),
			slog.String("response_id", response.ID.String()),
			slog.String("attempt_id", response.AttemptID.String()))
		return false, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}
	if rows == 0 {
		log.Debug("response already exists, insert skipped",
			slog.String("attempt_id", response.AttemptID.String()),
			slog.String("item_id", response.ItemID.String()))
		return false, nil
	}

	log.Debug("response recorded",
		slog.String("response_id", response.ID.String()),
		slog.String("attempt_id", response.AttemptID.String()),
		slog.String("item_id", response.ItemID.String()),
		slog.Bool("is_correct", response.IsCorrect))
	return true, nil
}

// ListByAttempt implements store.ResponseStore.ListByAttempt
func (s *PostgresResponseStore) ListByAttempt(
	ctx context.Context,
	attemptID uuid.UUID,
) ([]*domain.Response, error) {
	query := `
		SELECT id, attempt_id, item_id, submitted_text, selected_option_id,
			is_correct, score, time_spent_ms, created_at
		FROM responses
		WHERE attempt_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, attemptID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var responses []*domain.Response
	for rows.Next() {
		response, err := scanResponse(rows)
		if err != nil {
			return nil, MapError(err)
		}
		responses = append(responses, response)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return responses, nil
}

// WithTx implements store.ResponseStore.WithTx
func (s *PostgresResponseStore) WithTx(tx *sql.Tx) store.ResponseStore {
	return &PostgresResponseStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanResponse maps one result row onto a domain.Response.
func scanResponse(row rowScanner) (*domain.Response, error) {
	var response domain.Response
	var submittedText, selectedOptionID sql.NullString

	err := row.Scan(
		&response.ID,
		&response.AttemptID,
		&response.ItemID,
		&submittedText,
		&selectedOptionID,
		&response.IsCorrect,
		&response.Score,
		&response.TimeSpentMs,
		&response.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if submittedText.Valid {
		t := submittedText.String
		response.SubmittedText = &t
	}
	if selectedOptionID.Valid {
		o := selectedOptionID.String
		response.SelectedOptionID = &o
	}

	return &response, nil
}
