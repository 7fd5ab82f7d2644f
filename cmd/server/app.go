package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-cards/internal/api"
	"github.com/phrazzld/scry-cards/internal/config"
	"github.com/phrazzld/scry-cards/internal/generation"
	"github.com/phrazzld/scry-cards/internal/platform/openrouter"
	"github.com/phrazzld/scry-cards/internal/platform/postgres"
	"github.com/phrazzld/scry-cards/internal/service"
	"github.com/phrazzld/scry-cards/internal/service/auth"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService        auth.JWTService
	generationService api.GenerationInitiator
	historyService    service.GenerationHistoryService
	flashcardService  service.FlashcardService
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	generations := postgres.NewPostgresGenerationStore(db, logger)
	errorLog := postgres.NewPostgresGenerationErrorStore(db, logger)
	flashcards := postgres.NewPostgresFlashcardStore(db, logger)

	client, err := openrouter.NewClient(logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenRouter client: %w", err)
	}

	generator, err := generation.NewOpenRouterGenerator(client, openrouter.ModelConfig{
		Name:        cfg.LLM.ModelName,
		Temperature: openrouter.Float(openrouter.DefaultTemperature),
		MaxTokens:   openrouter.Int(openrouter.DefaultMaxTokens),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize flashcard generator: %w", err)
	}

	app.generationService, err = generation.NewService(generations, errorLog, generator, logger, generation.Config{
		Model:   cfg.LLM.ModelName,
		Timeout: cfg.LLM.GenerationTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	app.historyService, err = service.NewGenerationHistoryService(generations, errorLog, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation history service: %w", err)
	}

	app.flashcardService, err = service.NewFlashcardService(db, flashcards, generations, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	logger.Info("application initialized",
		slog.String("model", cfg.LLM.ModelName),
		slog.Duration("generation_timeout", cfg.LLM.GenerationTimeout))
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns when ctx is done and the server has shut down.
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
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
