package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/domain"
)

// GenerationStore defines the interface for generation record persistence.
type GenerationStore interface {
	// Create inserts a new generation and fills in the store-assigned ID and
	// timestamps on g. Returns validation errors from the domain entity if
	// data is invalid.
	Create(ctx context.Context, g *domain.Generation) error

	// UpdateDuration sets the elapsed generation time in milliseconds.
	// Returns ErrGenerationNotFound if the generation does not exist.
	UpdateDuration(ctx context.Context, id int64, durationMS int64) error

	// GetByID retrieves a generation owned by userID.
	// Returns ErrGenerationNotFound if it does not exist or belongs to
	// another user.
	GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Generation, error)

	// ListByUser returns a page of the user's generations, newest first,
	// with the total count across all pages.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Generation, int, error)

	// WithTx returns a new GenerationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) GenerationStore
}

// GenerationErrorStore defines the interface for generation failure diagnostics.
type GenerationErrorStore interface {
	// Create inserts a diagnostic row for a failed generation.
	Create(ctx context.Context, ge *domain.GenerationError) error

	// ListByGeneration returns the errors recorded for a generation, oldest first.
	ListByGeneration(ctx context.Context, generationID int64) ([]*domain.GenerationError, error)
}
