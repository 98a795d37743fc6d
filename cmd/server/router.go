package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/practica-app/practica-api/internal/api"
	apiMiddleware "github.com/practica-app/practica-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	// Create API handlers using the application's services
	practiceHandler := api.NewPracticeHandler(app.practiceService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// All practice endpoints require a caller identity, injected by the
		// gateway as the X-User-ID header.
		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.Identity)

			// Session lifecycle
			r.Post("/practice/sessions", practiceHandler.StartSession)
			r.Get("/practice/sessions/{id}", practiceHandler.GetSession)
			r.Post("/practice/sessions/{id}/complete", practiceHandler.CompleteSession)

			// Attempts and answers
			r.Post("/practice/sessions/{id}/attempts", practiceHandler.StartAttempt)
			r.Get("/practice/attempts/{id}", practiceHandler.GetAttempt)
			r.Post("/practice/attempts/{id}/answers", practiceHandler.SubmitAnswer)
			r.Post("/practice/attempts/{id}/submit", practiceHandler.SubmitAttempt)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
