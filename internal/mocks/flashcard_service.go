package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/service"
)

// MockFlashcardService implements service.FlashcardService for testing.
// Unset functions return zero values.
type MockFlashcardService struct {
	CreateFlashcardsFn func(ctx context.Context, userID uuid.UUID, inputs []service.FlashcardInput) ([]*domain.Flashcard, error)
	ListFlashcardsFn   func(ctx context.Context, userID uuid.UUID, params service.ListFlashcardsParams) (*service.FlashcardPage, error)
	DeleteFlashcardFn  func(ctx context.Context, userID uuid.UUID, id int64) error

	// LastListParams records the parameters of the latest ListFlashcards call.
	LastListParams *service.ListFlashcardsParams
}

var _ service.FlashcardService = (*MockFlashcardService)(nil)

// CreateFlashcards implements service.FlashcardService
func (m *MockFlashcardService) CreateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	inputs []service.FlashcardInput,
) ([]*domain.Flashcard, error) {
	if m.CreateFlashcardsFn != nil {
		return m.CreateFlashcardsFn(ctx, userID, inputs)
	}
	return nil, nil
}

// ListFlashcards implements service.FlashcardService
func (m *MockFlashcardService) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	params service.ListFlashcardsParams,
) (*service.FlashcardPage, error) {
	m.LastListParams = &params
	if m.ListFlashcardsFn != nil {
		return m.ListFlashcardsFn(ctx, userID, params)
	}
	return &service.FlashcardPage{}, nil
}

// DeleteFlashcard implements service.FlashcardService
func (m *MockFlashcardService) DeleteFlashcard(ctx context.Context, userID uuid.UUID, id int64) error {
	if m.DeleteFlashcardFn != nil {
		return m.DeleteFlashcardFn(ctx, userID, id)
	}
	return nil
}
