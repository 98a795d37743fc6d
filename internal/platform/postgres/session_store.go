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

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Create implements store.SessionStore.Create
// The sessions_active_user_lesson_idx partial unique index rejects a second
// active session for the same (user, lesson); that violation is returned as
// store.ErrActiveSessionExists.
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.PracticeSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO sessions (id, user_id, lesson_id, mode, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.LessonID,
		session.Mode,
		session.StartedAt,
		session.EndedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("active session already exists",
				slog.String("user_id", session.UserID.String()),
				slog.String("lesson_id", session.LessonID.String()))
			return MapUniqueViolation(err, store.ErrActiveSessionExists)
		}

		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	log.Info("session created",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.String("lesson_id", session.LessonID.String()),
		slog.String("mode", string(session.Mode)))
	return nil
}

// GetByID implements store.SessionStore.GetByID
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error) {
	query := `
		SELECT id, user_id, lesson_id, mode, started_at, ended_at
		FROM sessions
		WHERE id = $1
	`
	return s.scanSession(ctx, query, id)
}

// GetByIDForUpdate implements store.SessionStore.GetByIDForUpdate
// It locks the session row so attempt numbering and completion are
// serialized per session. Only meaningful inside a transaction.
func (s *PostgresSessionStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error) {
	query := `
		SELECT id, user_id, lesson_id, mode, started_at, ended_at
		FROM sessions
		WHERE id = $1
		FOR UPDATE
	`
	return s.scanSession(ctx, query, id)
}

// GetActive implements store.SessionStore.GetActive
func (s *PostgresSessionStore) GetActive(
	ctx context.Context,
	userID, lessonID uuid.UUID,
) (*domain.PracticeSession, error) {
	query := `
		SELECT id, user_id, lesson_id, mode, started_at, ended_at
		FROM sessions
		WHERE user_id = $1 AND lesson_id = $2 AND ended_at IS NULL
	`
	return s.scanSession(ctx, query, userID, lessonID)
}

// Complete implements store.SessionStore.Complete
// The conditional update keeps completion one-way: zero affected rows means
// the session is already completed (or gone) and is reported as
// store.ErrUpdateFailed for the caller to resolve against the stored row.
func (s *PostgresSessionStore) Complete(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE sessions
		SET ended_at = $1
		WHERE id = $2 AND ended_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query, endedAt, id)
	if err != nil {
		log.Error("failed to complete session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "session"); err != nil {
		return fmt.Errorf("%w: session %s is not active", store.ErrUpdateFailed, id)
	}

	log.Info("session completed", slog.String("session_id", id.String()))
	return nil
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanSession runs a single-row session query and maps the result.
func (s *PostgresSessionStore) scanSession(
	ctx context.Context,
	query string,
	args ...any,
) (*domain.PracticeSession, error) {
	var session domain.PracticeSession
	var mode string
	var endedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&session.ID,
		&session.UserID,
		&session.LessonID,
		&mode,
		&session.StartedAt,
		&endedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, MapError(err)
	}

	session.Mode = domain.SessionMode(mode)
	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}

	return &session, nil
}
