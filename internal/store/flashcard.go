package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/domain"
)

// FlashcardFilter narrows a flashcard listing.
type FlashcardFilter struct {
	UserID uuid.UUID
	// IsDeleted filters on the deleted flag when non-nil.
	IsDeleted *bool
	// Search matches the front text case-insensitively when non-empty.
	Search string
	Limit  int
	Offset int
}

// FlashcardStore defines the interface for flashcard persistence.
type FlashcardStore interface {
	// CreateMultiple saves the cards in one statement and fills in their
	// IDs and timestamps. Should run inside a transaction together with the
	// generation ownership checks that precede it.
	//
	// Usage example:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return flashcardStore.WithTx(tx).CreateMultiple(ctx, cards)
	//   })
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// GetByID retrieves a flashcard owned by userID.
	// Returns ErrFlashcardNotFound if it does not exist or belongs to another user.
	GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Flashcard, error)

	// List returns a page of cards matching the filter, newest first, and
	// the total count across all pages.
	List(ctx context.Context, filter FlashcardFilter) ([]*domain.Flashcard, int, error)

	// SoftDelete marks a card deleted.
	// Returns ErrFlashcardNotFound if missing and ErrFlashcardAlreadyDeleted
	// if the card is already marked deleted.
	SoftDelete(ctx context.Context, id int64, userID uuid.UUID) error

	// WithTx returns a new FlashcardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FlashcardStore
}
