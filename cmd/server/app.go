package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/practica-app/practica-api/internal/config"
	"github.com/practica-app/practica-api/internal/domain/evaluation"
	"github.com/practica-app/practica-api/internal/platform/postgres"
	"github.com/practica-app/practica-api/internal/service/practice"
	"github.com/practica-app/practica-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	sessionStore    store.SessionStore
	attemptStore    store.AttemptStore
	responseStore   store.ResponseStore
	lessonCatalog   store.LessonCatalog
	exerciseCatalog store.ExerciseCatalog

	// Service interfaces
	evaluator       evaluation.Service
	practiceService practice.PracticeService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
	app.attemptStore = postgres.NewPostgresAttemptStore(db, logger)
	app.responseStore = postgres.NewPostgresResponseStore(db, logger)

	catalogStore := postgres.NewPostgresCatalogStore(db, logger)
	app.lessonCatalog = catalogStore
	app.exerciseCatalog = catalogStore

	// Initialize the answer evaluator with the configured per-item award
	app.evaluator = evaluation.NewServiceWithParams(&evaluation.Params{
		PointsPerCorrect: cfg.Practice.PointsPerCorrect,
	})

	// Create required adapters
	sessionRepoAdapter := practice.NewSessionRepositoryAdapter(app.sessionStore, app.db)
	attemptRepoAdapter := practice.NewAttemptRepositoryAdapter(app.attemptStore)
	responseRepoAdapter := practice.NewResponseRepositoryAdapter(app.responseStore)

	// Initialize practice service
	app.practiceService = practice.NewPracticeService(
		sessionRepoAdapter,
		attemptRepoAdapter,
		responseRepoAdapter,
		app.lessonCatalog,
		app.exerciseCatalog,
		app.evaluator,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
