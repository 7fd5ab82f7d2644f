package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/store"
)

// PostgresGenerationStore implements the store.GenerationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationStore creates a new PostgreSQL implementation of the GenerationStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
	}
}

// Ensure PostgresGenerationStore implements store.GenerationStore interface
var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// Create implements store.GenerationStore.Create
func (s *PostgresGenerationStore) Create(ctx context.Context, g *domain.Generation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := g.Validate(); err != nil {
		log.Warn("generation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", g.UserID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO generations (user_id, model, source_text_length, source_text_hash, generation_duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		g.UserID,
		g.Model,
		g.SourceTextLength,
		g.SourceTextHash,
		g.GenerationDuration,
		g.CreatedAt,
		g.UpdatedAt,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		log.Error("failed to create generation",
			slog.String("error", err.Error()),
			slog.String("user_id", g.UserID.String()))
		return MapError(err)
	}

	log.Debug("generation created",
		slog.Int64("generation_id", g.ID),
		slog.String("user_id", g.UserID.String()),
		slog.Int("source_text_length", g.SourceTextLength))
	return nil
}

// UpdateDuration implements store.GenerationStore.UpdateDuration
func (s *PostgresGenerationStore) UpdateDuration(ctx context.Context, id int64, durationMS int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if durationMS < 0 {
		return fmt.Errorf("%w: generation duration cannot be negative", store.ErrInvalidEntity)
	}

	query := `
		UPDATE generations
		SET generation_duration = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, durationMS, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update generation duration",
			slog.String("error", err.Error()),
			slog.Int64("generation_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrGenerationNotFound); err != nil {
		log.Debug("generation not found for duration update", slog.Int64("generation_id", id))
		return err
	}

	log.Debug("generation duration updated",
		slog.Int64("generation_id", id),
		slog.Int64("duration_ms", durationMS))
	return nil
}

// GetByID implements store.GenerationStore.GetByID
func (s *PostgresGenerationStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, model, source_text_length, source_text_hash, generation_duration, created_at, updated_at
		FROM generations
		WHERE id = $1 AND user_id = $2
	`

	var g domain.Generation
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&g.ID,
		&g.UserID,
		&g.Model,
		&g.SourceTextLength,
		&g.SourceTextHash,
		&g.GenerationDuration,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generation not found",
				slog.Int64("generation_id", id),
				slog.String("user_id", userID.String()))
			return nil, store.ErrGenerationNotFound
		}
		log.Error("failed to get generation by ID",
			slog.String("error", err.Error()),
			slog.Int64("generation_id", id))
		return nil, MapError(err)
	}

	return &g, nil
}

// ListByUser implements store.GenerationStore.ListByUser
func (s *PostgresGenerationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Generation, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM generations WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		log.Error("failed to count generations",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}

	query := `
		SELECT id, user_id, model, source_text_length, source_text_hash, generation_duration, created_at, updated_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list generations",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	generations := make([]*domain.Generation, 0, limit)
	for rows.Next() {
		var g domain.Generation
		if err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Model,
			&g.SourceTextLength,
			&g.SourceTextHash,
			&g.GenerationDuration,
			&g.CreatedAt,
			&g.UpdatedAt,
		); err != nil {
			return nil, 0, MapError(err)
		}
		generations = append(generations, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	return generations, total, nil
}

// WithTx implements store.GenerationStore.WithTx
func (s *PostgresGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return &PostgresGenerationStore{
		db:     tx,
		logger: s.logger,
	}
}
