package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/store"
)

// GenerationPage is one page of generations.
type GenerationPage struct {
	Generations []*domain.Generation
	Pagination  Pagination
}

// GenerationHistoryService reads a user's past generations.
type GenerationHistoryService interface {
	// ListGenerations returns a page of the user's generations, newest first.
	ListGenerations(ctx context.Context, userID uuid.UUID, page Page) (*GenerationPage, error)

	// GetGenerationErrors returns the failures recorded for one of the
	// user's generations. Returns store.ErrGenerationNotFound for
	// generations the user does not own.
	GetGenerationErrors(ctx context.Context, userID uuid.UUID, generationID int64) ([]*domain.GenerationError, error)
}

type generationHistoryServiceImpl struct {
	generations store.GenerationStore
	errorLog    store.GenerationErrorStore
	logger      *slog.Logger
}

// NewGenerationHistoryService creates a new GenerationHistoryService
func NewGenerationHistoryService(
	generations store.GenerationStore,
	errorLog store.GenerationErrorStore,
	logger *slog.Logger,
) (GenerationHistoryService, error) {
	if generations == nil {
		return nil, fmt.Errorf("%w: generation store cannot be nil", domain.ErrValidation)
	}
	if errorLog == nil {
		return nil, fmt.Errorf("%w: generation error store cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &generationHistoryServiceImpl{
		generations: generations,
		errorLog:    errorLog,
		logger:      logger.With(slog.String("component", "generation_history_service")),
	}, nil
}

func (s *generationHistoryServiceImpl) ListGenerations(
	ctx context.Context,
	userID uuid.UUID,
	page Page,
) (*GenerationPage, error) {
	page = page.normalize()
	gens, total, err := s.generations.ListByUser(ctx, userID, page.Limit, page.offset())
	if err != nil {
		return nil, NewServiceError("generation_history", "list", err)
	}
	return &GenerationPage{
		Generations: gens,
		Pagination:  Pagination{Page: page.Page, Limit: page.Limit, Total: total},
	}, nil
}

func (s *generationHistoryServiceImpl) GetGenerationErrors(
	ctx context.Context,
	userID uuid.UUID,
	generationID int64,
) ([]*domain.GenerationError, error) {
	if _, err := s.generations.GetByID(ctx, generationID, userID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrGenerationNotFound
		}
		return nil, NewServiceError("generation_history", "get_errors", err)
	}

	errs, err := s.errorLog.ListByGeneration(ctx, generationID)
	if err != nil {
		return nil, NewServiceError("generation_history", "get_errors", err)
	}
	return errs, nil
}
