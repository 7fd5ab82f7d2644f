package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/store"
)

// PostgresGenerationErrorStore implements the store.GenerationErrorStore
// interface on top of the generations_errors table.
type PostgresGenerationErrorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationErrorStore creates a new PostgresGenerationErrorStore.
func NewPostgresGenerationErrorStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationErrorStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationErrorStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_error_store")),
	}
}

var _ store.GenerationErrorStore = (*PostgresGenerationErrorStore)(nil)

// Create implements store.GenerationErrorStore.Create
func (s *PostgresGenerationErrorStore) Create(ctx context.Context, ge *domain.GenerationError) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ge.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	// A nil RawMessage must reach the driver as NULL, not as an empty string.
	var detail any
	if len(ge.ErrorDetail) > 0 {
		detail = string(ge.ErrorDetail)
	}

	query := `
		INSERT INTO generations_errors (generation_id, error_message, error_detail, model, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		ge.GenerationID,
		ge.ErrorMessage,
		detail,
		ge.Model,
		ge.CreatedAt,
	).Scan(&ge.ID)
	if err != nil {
		log.Error("failed to create generation error",
			slog.String("error", err.Error()),
			slog.Int64("generation_id", ge.GenerationID))
		return MapError(err)
	}

	return nil
}

// ListByGeneration implements store.GenerationErrorStore.ListByGeneration
func (s *PostgresGenerationErrorStore) ListByGeneration(
	ctx context.Context,
	generationID int64,
) ([]*domain.GenerationError, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, generation_id, error_message, error_detail, model, created_at
		FROM generations_errors
		WHERE generation_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, generationID)
	if err != nil {
		log.Error("failed to list generation errors",
			slog.String("error", err.Error()),
			slog.Int64("generation_id", generationID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var result []*domain.GenerationError
	for rows.Next() {
		var ge domain.GenerationError
		var detail []byte
		if err := rows.Scan(
			&ge.ID,
			&ge.GenerationID,
			&ge.ErrorMessage,
			&detail,
			&ge.Model,
			&ge.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		ge.ErrorDetail = detail
		result = append(result, &ge)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return result, nil
}
