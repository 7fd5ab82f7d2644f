package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FlashcardSource identifies how a flashcard was produced.
type FlashcardSource string

const (
	// SourceManual marks a card written by the user.
	SourceManual FlashcardSource = "manual"
	// SourceAIFull marks a card accepted exactly as the model proposed it.
	SourceAIFull FlashcardSource = "ai-full"
	// SourceAIEdited marks a model proposal the user edited before saving.
	SourceAIEdited FlashcardSource = "ai-edited"
)

// Field limits for flashcard text, counted in characters.
const (
	MaxFrontLength = 200
	MaxBackLength  = 500
)

// Flashcard-specific validation errors
var (
	ErrFlashcardUserIDEmpty       = errors.New("flashcard user ID cannot be empty")
	ErrFlashcardFrontEmpty        = errors.New("flashcard front cannot be empty")
	ErrFlashcardFrontTooLong      = errors.New("flashcard front cannot exceed 200 characters")
	ErrFlashcardBackEmpty         = errors.New("flashcard back cannot be empty")
	ErrFlashcardBackTooLong       = errors.New("flashcard back cannot exceed 500 characters")
	ErrFlashcardSourceInvalid     = errors.New("invalid flashcard source")
	ErrFlashcardGenerationMissing = errors.New("generation ID is required for AI-generated flashcards")
)

// IsValid reports whether s is a known source.
func (s FlashcardSource) IsValid() bool {
	switch s {
	case SourceManual, SourceAIFull, SourceAIEdited:
		return true
	}
	return false
}

// IsAI reports whether s denotes an AI-produced card.
func (s FlashcardSource) IsAI() bool {
	return s == SourceAIFull || s == SourceAIEdited
}

// Flashcard is a question/answer pair owned by a user. The same shape is used
// for unsaved proposals, which carry negative placeholder IDs.
type Flashcard struct {
	ID           int64           `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	GenerationID *int64          `json:"generation_id"`
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Source       FlashcardSource `json:"source"`
	IsDeleted    bool            `json:"is_deleted"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewFlashcard creates an unsaved flashcard. generationID may be nil for
// manual cards.
func NewFlashcard(userID uuid.UUID, front, back string, source FlashcardSource, generationID *int64) (*Flashcard, error) {
	now := time.Now().UTC()
	f := &Flashcard{
		UserID:       userID,
		GenerationID: generationID,
		Front:        front,
		Back:         back,
		Source:       source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// NewProposal builds the index-th proposal of a generation. Proposals are not
// persisted; their ID is the placeholder -(index+1). Text length limits are
// not applied since the user may edit the card before saving it.
func NewProposal(index int, userID uuid.UUID, generationID int64, front, back string, at time.Time) Flashcard {
	genID := generationID
	return Flashcard{
		ID:           -int64(index + 1),
		UserID:       userID,
		GenerationID: &genID,
		Front:        front,
		Back:         back,
		Source:       SourceAIFull,
		IsDeleted:    false,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}

	switch n := utf8.RuneCountInString(f.Front); {
	case n == 0:
		return ErrFlashcardFrontEmpty
	case n > MaxFrontLength:
		return ErrFlashcardFrontTooLong
	}

	switch n := utf8.RuneCountInString(f.Back); {
	case n == 0:
		return ErrFlashcardBackEmpty
	case n > MaxBackLength:
		return ErrFlashcardBackTooLong
	}

	if !f.Source.IsValid() {
		return ErrFlashcardSourceInvalid
	}

	if f.Source.IsAI() && f.GenerationID == nil {
		return ErrFlashcardGenerationMissing
	}

	return nil
}
