package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/store"
)

const flashcardColumns = `id, user_id, generation_id, front, back, source, is_deleted, created_at, updated_at`

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the FlashcardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// CreateMultiple implements store.FlashcardStore.CreateMultiple
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	for i, c := range cards {
		if err := c.Validate(); err != nil {
			log.Warn("flashcard validation failed during create",
				slog.String("error", err.Error()),
				slog.Int("index", i))
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	// One statement per card so each RETURNING row belongs to a known card.
	// Callers run this inside a transaction for all-or-nothing semantics.
	const query = `INSERT INTO flashcards (user_id, generation_id, front, back, source, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	for i, c := range cards {
		err := s.db.QueryRowContext(ctx, query,
			c.UserID, c.GenerationID, c.Front, c.Back, string(c.Source), c.IsDeleted, c.CreatedAt, c.UpdatedAt,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			log.Error("failed to create flashcard",
				slog.String("error", err.Error()),
				slog.Int("index", i),
				slog.Int("count", len(cards)))
			return MapError(err)
		}
	}

	log.Debug("flashcards created", slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.FlashcardStore.GetByID
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE id = $1 AND user_id = $2`
	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard by ID",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return nil, MapError(err)
	}
	return card, nil
}

// List implements store.FlashcardStore.List
func (s *PostgresFlashcardStore) List(ctx context.Context, f store.FlashcardFilter) ([]*domain.Flashcard, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where := `WHERE user_id = $1`
	args := []any{f.UserID}
	if f.IsDeleted != nil {
		args = append(args, *f.IsDeleted)
		where += fmt.Sprintf(` AND is_deleted = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		where += fmt.Sprintf(` AND front ILIKE $%d`, len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcards `+where, args...).Scan(&total); err != nil {
		log.Error("failed to count flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", f.UserID.String()))
		return nil, 0, MapError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM flashcards %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		flashcardColumns, where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", f.UserID.String()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Flashcard, 0, f.Limit)
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, 0, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	return cards, total, nil
}

// SoftDelete implements store.FlashcardStore.SoftDelete
func (s *PostgresFlashcardStore) SoftDelete(ctx context.Context, id int64, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE flashcards
		SET is_deleted = TRUE, updated_at = $1
		WHERE id = $2 AND user_id = $3 AND is_deleted = FALSE
	`, time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to soft delete flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, nil); err == nil {
		log.Debug("flashcard soft deleted", slog.Int64("flashcard_id", id))
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	// Nothing updated: tell a missing card apart from one already deleted.
	var deleted bool
	err = s.db.QueryRowContext(ctx,
		`SELECT is_deleted FROM flashcards WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&deleted)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrFlashcardNotFound
	case err != nil:
		return MapError(err)
	case deleted:
		return store.ErrFlashcardAlreadyDeleted
	default:
		return fmt.Errorf("%w: flashcard %d was not updated", store.ErrUpdateFailed, id)
	}
}

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var c domain.Flashcard
	var genID sql.NullInt64
	var source string
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&genID,
		&c.Front,
		&c.Back,
		&source,
		&c.IsDeleted,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if genID.Valid {
		id := genID.Int64
		c.GenerationID = &id
	}
	c.Source = domain.FlashcardSource(source)
	return &c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
