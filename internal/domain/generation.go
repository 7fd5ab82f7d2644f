package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Generation-specific validation errors
var (
	// ErrGenerationUserIDEmpty is returned when a generation's user ID is nil.
	ErrGenerationUserIDEmpty = errors.New("generation user ID cannot be empty")

	// ErrGenerationModelEmpty is returned when a generation has no model name.
	ErrGenerationModelEmpty = errors.New("generation model cannot be empty")

	// ErrGenerationHashInvalid is returned when the source text hash is not a 64-char hex digest.
	ErrGenerationHashInvalid = errors.New("generation source text hash must be 64 hex characters")

	// ErrGenerationLengthInvalid is returned when the source text length is negative.
	ErrGenerationLengthInvalid = errors.New("generation source text length cannot be negative")

	// ErrGenerationErrorMessageEmpty is returned when a generation error has no message.
	ErrGenerationErrorMessageEmpty = errors.New("generation error message cannot be empty")
)

// Generation records one attempt to turn source text into flashcards.
// The record is created before the AI call and updated once with the
// elapsed duration when the call succeeds.
type Generation struct {
	ID                 int64     `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Model              string    `json:"model"`
	SourceTextLength   int       `json:"source_text_length"`
	SourceTextHash     string    `json:"source_text_hash"`
	GenerationDuration int64     `json:"generation_duration"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewGeneration creates an unsaved Generation with zero duration.
// The ID is assigned by the store on insert.
func NewGeneration(userID uuid.UUID, model string, sourceLength int, sourceHash string) (*Generation, error) {
	now := time.Now().UTC()
	g := &Generation{
		UserID:           userID,
		Model:            model,
		SourceTextLength: sourceLength,
		SourceTextHash:   sourceHash,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// Validate checks if the Generation has valid data.
func (g *Generation) Validate() error {
	if g.UserID == uuid.Nil {
		return ErrGenerationUserIDEmpty
	}

	if g.Model == "" {
		return ErrGenerationModelEmpty
	}

	if g.SourceTextLength < 0 {
		return ErrGenerationLengthInvalid
	}

	if !isHexDigest(g.SourceTextHash) {
		return ErrGenerationHashInvalid
	}

	return nil
}

func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// GenerationError is a diagnostic row written when a generation attempt fails.
type GenerationError struct {
	ID           int64           `json:"id"`
	GenerationID int64           `json:"generation_id"`
	ErrorMessage string          `json:"error_message"`
	ErrorDetail  json.RawMessage `json:"error_detail,omitempty"`
	Model        string          `json:"model"`
	CreatedAt    time.Time       `json:"created_at"`
}

// errorDetail is the structured payload stored alongside the message.
type errorDetail struct {
	Timestamp time.Time `json:"timestamp"`
	ErrorType string    `json:"error_type"`
	Chain     []string  `json:"chain,omitempty"`
}

// NewGenerationError builds a GenerationError from a pipeline failure.
// The detail captures the error's concrete type and its unwrap chain.
func NewGenerationError(generationID int64, model string, cause error) (*GenerationError, error) {
	if cause == nil {
		return nil, ErrGenerationErrorMessageEmpty
	}

	now := time.Now().UTC()
	detail := errorDetail{
		Timestamp: now,
		ErrorType: fmt.Sprintf("%T", cause),
	}
	for e := errors.Unwrap(cause); e != nil; e = errors.Unwrap(e) {
		detail.Chain = append(detail.Chain, e.Error())
	}

	raw, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("failed to encode error detail: %w", err)
	}

	ge := &GenerationError{
		GenerationID: generationID,
		ErrorMessage: cause.Error(),
		ErrorDetail:  raw,
		Model:        model,
		CreatedAt:    now,
	}

	if err := ge.Validate(); err != nil {
		return nil, err
	}

	return ge, nil
}

// Validate checks if the GenerationError has valid data.
func (ge *GenerationError) Validate() error {
	if ge.ErrorMessage == "" {
		return ErrGenerationErrorMessageEmpty
	}
	if ge.Model == "" {
		return ErrGenerationModelEmpty
	}
	return nil
}
