package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-cards/internal/api"
	apiMiddleware "github.com/phrazzld/scry-cards/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	generationHandler := api.NewGenerationHandler(app.generationService, app.historyService, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/generations", generationHandler.InitiateGeneration)
		r.Get("/generations", generationHandler.ListGenerations)
		r.Get("/generations/{id}/errors", generationHandler.GetGenerationErrors)

		r.Post("/flashcards", flashcardHandler.CreateFlashcards)
		r.Get("/flashcards", flashcardHandler.ListFlashcards)
		r.Delete("/flashcards/{id}", flashcardHandler.DeleteFlashcard)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
