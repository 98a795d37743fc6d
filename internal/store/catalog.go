package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/domain"
)

// LessonCatalog is the read-only contract with the lesson catalog: the
// practice engine only ever checks that a lesson exists.
type LessonCatalog interface {
	// LessonExists reports whether the lesson is present in the catalog.
	LessonExists(ctx context.Context, lessonID uuid.UUID) (bool, error)
}

// ExerciseCatalog is the read-only contract with the exercise catalog, which
// supplies the ground-truth correct answer for an exercise item. The catalog
// is opaque beyond this contract and is never mutated by the engine.
type ExerciseCatalog interface {
	// GetCorrectAnswer retrieves the ground truth for the item.
	// Returns ErrItemNotFound if the item does not exist in the catalog.
	GetCorrectAnswer(ctx context.Context, itemID uuid.UUID) (*domain.GroundTruth, error)
}
