package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockFlashcardStore is a mock of store.FlashcardStore for use with testify/mock
type TestifyMockFlashcardStore struct {
	mock.Mock
}

var _ store.FlashcardStore = (*TestifyMockFlashcardStore)(nil)

// CreateMultiple is a mock implementation of store.FlashcardStore.CreateMultiple
func (m *TestifyMockFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

// GetByID is a mock implementation of store.FlashcardStore.GetByID
func (m *TestifyMockFlashcardStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Flashcard, error) {
	args := m.Called(ctx, id, userID)
	if card, ok := args.Get(0).(*domain.Flashcard); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

// List is a mock implementation of store.FlashcardStore.List
func (m *TestifyMockFlashcardStore) List(ctx context.Context, filter store.FlashcardFilter) ([]*domain.Flashcard, int, error) {
	args := m.Called(ctx, filter)
	cards, _ := args.Get(0).([]*domain.Flashcard)
	return cards, args.Int(1), args.Error(2)
}

// SoftDelete is a mock implementation of store.FlashcardStore.SoftDelete
func (m *TestifyMockFlashcardStore) SoftDelete(ctx context.Context, id int64, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// WithTx is a mock implementation of store.FlashcardStore.WithTx
func (m *TestifyMockFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.FlashcardStore); ok {
		return ret
	}
	return m
}
