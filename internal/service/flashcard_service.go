package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/store"
)

// MaxFlashcardsPerRequest caps one create call.
const MaxFlashcardsPerRequest = 30

// FlashcardInput is one card to save.
type FlashcardInput struct {
	Front        string
	Back         string
	Source       domain.FlashcardSource
	GenerationID *int64
}

// ListFlashcardsParams selects a page of the user's cards.
type ListFlashcardsParams struct {
	Page
	// IsDeleted filters on the deleted flag when non-nil.
	IsDeleted *bool
	Search    string
}

// FlashcardPage is one page of cards.
type FlashcardPage struct {
	Flashcards []*domain.Flashcard
	Pagination Pagination
}

// FlashcardService provides flashcard operations
type FlashcardService interface {
	// CreateFlashcards saves the cards for userID. AI-sourced cards must
	// reference a generation owned by the user. The ownership checks and the
	// insert run in one transaction.
	CreateFlashcards(ctx context.Context, userID uuid.UUID, inputs []FlashcardInput) ([]*domain.Flashcard, error)

	// ListFlashcards returns a page of the user's cards, newest first.
	ListFlashcards(ctx context.Context, userID uuid.UUID, params ListFlashcardsParams) (*FlashcardPage, error)

	// DeleteFlashcard soft-deletes one of the user's cards.
	DeleteFlashcard(ctx context.Context, userID uuid.UUID, id int64) error
}

type flashcardServiceImpl struct {
	db          *sql.DB
	flashcards  store.FlashcardStore
	generations store.GenerationStore
	logger      *slog.Logger
}

// NewFlashcardService creates a new FlashcardService
// It returns an error if any of the required dependencies are nil.
func NewFlashcardService(
	db *sql.DB,
	flashcards store.FlashcardStore,
	generations store.GenerationStore,
	logger *slog.Logger,
) (FlashcardService, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if flashcards == nil {
		return nil, fmt.Errorf("%w: flashcard store cannot be nil", domain.ErrValidation)
	}
	if generations == nil {
		return nil, fmt.Errorf("%w: generation store cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		db:          db,
		flashcards:  flashcards,
		generations: generations,
		logger:      logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

// CreateFlashcards implements FlashcardService.CreateFlashcards
func (s *flashcardServiceImpl) CreateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	inputs []FlashcardInput,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(inputs) == 0 {
		return nil, ErrNoFlashcards
	}
	if len(inputs) > MaxFlashcardsPerRequest {
		return nil, ErrTooManyFlashcards
	}

	cards := make([]*domain.Flashcard, 0, len(inputs))
	var generationIDs []int64
	seen := make(map[int64]bool)
	for i, in := range inputs {
		card, err := domain.NewFlashcard(userID, in.Front, in.Back, in.Source, in.GenerationID)
		if err != nil {
			return nil, fmt.Errorf("%w: flashcard %d: %w", domain.ErrValidation, i, err)
		}
		cards = append(cards, card)

		if card.Source.IsAI() && card.GenerationID != nil && !seen[*card.GenerationID] {
			seen[*card.GenerationID] = true
			generationIDs = append(generationIDs, *card.GenerationID)
		}
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txGenerations := s.generations.WithTx(tx)
		txFlashcards := s.flashcards.WithTx(tx)

		for _, id := range generationIDs {
			if _, err := txGenerations.GetByID(ctx, id, userID); err != nil {
				if store.IsNotFoundError(err) {
					log.Debug("flashcard references a foreign generation",
						slog.Int64("generation_id", id),
						slog.String("user_id", userID.String()))
					return fmt.Errorf("generation %d: %w", id, ErrGenerationNotOwned)
				}
				return NewServiceError("flashcard", "create", err)
			}
		}

		if err := txFlashcards.CreateMultiple(ctx, cards); err != nil {
			log.Error("failed to save flashcards in transaction",
				slog.String("error", err.Error()),
				slog.Int("count", len(cards)))
			return NewServiceError("flashcard", "create", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("flashcards saved",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// ListFlashcards implements FlashcardService.ListFlashcards
func (s *flashcardServiceImpl) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	params ListFlashcardsParams,
) (*FlashcardPage, error) {
	page := params.Page.normalize()

	cards, total, err := s.flashcards.List(ctx, store.FlashcardFilter{
		UserID:    userID,
		IsDeleted: params.IsDeleted,
		Search:    strings.TrimSpace(params.Search),
		Limit:     page.Limit,
		Offset:    page.offset(),
	})
	if err != nil {
		return nil, NewServiceError("flashcard", "list", err)
	}

	return &FlashcardPage{
		Flashcards: cards,
		Pagination: Pagination{Page: page.Page, Limit: page.Limit, Total: total},
	}, nil
}

// DeleteFlashcard implements FlashcardService.DeleteFlashcard
func (s *flashcardServiceImpl) DeleteFlashcard(ctx context.Context, userID uuid.UUID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.flashcards.SoftDelete(ctx, id, userID)
	switch {
	case err == nil:
		log.Debug("flashcard deleted", slog.Int64("flashcard_id", id))
		return nil
	case errors.Is(err, store.ErrFlashcardNotFound), errors.Is(err, store.ErrFlashcardAlreadyDeleted):
		return err
	default:
		return NewServiceError("flashcard", "delete", err)
	}
}
