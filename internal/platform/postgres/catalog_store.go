package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/domain"
	"github.com/practica-app/practica-api/internal/store"
)

// PostgresCatalogStore implements the read-only store.LessonCatalog and
// store.ExerciseCatalog contracts against the catalog service's tables.
// The practice engine never writes through this store.
type PostgresCatalogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCatalogStore creates a new PostgreSQL implementation of the
// catalog contracts. If logger is nil, a default logger will be used.
func NewPostgresCatalogStore(db store.DBTX, logger *slog.Logger) *PostgresCatalogStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCatalogStore{
		db:     db,
		logger: logger.With(slog.String("component", "catalog_store")),
	}
}

// Ensure PostgresCatalogStore implements the catalog contracts
var (
	_ store.LessonCatalog   = (*PostgresCatalogStore)(nil)
	_ store.ExerciseCatalog = (*PostgresCatalogStore)(nil)
)

// LessonExists implements store.LessonCatalog.LessonExists
func (s *PostgresCatalogStore) LessonExists(ctx context.Context, lessonID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM lessons WHERE id = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, lessonID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// GetCorrectAnswer implements store.ExerciseCatalog.GetCorrectAnswer
func (s *PostgresCatalogStore) GetCorrectAnswer(
	ctx context.Context,
	itemID uuid.UUID,
) (*domain.GroundTruth, error) {
	query := `
		SELECT correct_text, correct_option_id
		FROM exercise_items
		WHERE id = $1
	`

	var correctText, correctOptionID sql.NullString
	err := s.db.QueryRowContext(ctx, query, itemID).Scan(&correctText, &correctOptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrItemNotFound
		}
		return nil, MapError(err)
	}

	truth := &domain.GroundTruth{}
	if correctText.Valid {
		t := correctText.String
		truth.CorrectText = &t
	}
	if correctOptionID.Valid {
		o := correctOptionID.String
		truth.CorrectOptionID = &o
	}

	return truth, nil
}
