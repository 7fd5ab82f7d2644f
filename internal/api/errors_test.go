package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/generation"
	"github.com/phrazzld/scry-cards/internal/service"
	"github.com/phrazzld/scry-cards/internal/service/auth"
	"github.com/phrazzld/scry-cards/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"wrong token type", fmt.Errorf("validate: %w", auth.ErrWrongTokenType), http.StatusUnauthorized},
		{"validation", fmt.Errorf("%w: front", domain.ErrValidation), http.StatusBadRequest},
		{"invalid id", domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), http.StatusBadRequest},
		{"foreign generation", service.ErrGenerationNotOwned, http.StatusBadRequest},
		{"too many", service.ErrTooManyFlashcards, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"generation not found", store.ErrGenerationNotFound, http.StatusNotFound},
		{"flashcard not found", store.NewStoreError("flashcard", "delete", "missing", store.ErrFlashcardNotFound), http.StatusNotFound},
		{"already deleted", store.ErrFlashcardAlreadyDeleted, http.StatusConflict},
		{"generation failed", fmt.Errorf("%w: %w", generation.ErrGenerationFailed, generation.ErrGenerationTimeout), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("pq: relation flashcards does not exist")))
	assert.Equal(t, "Token expired", GetSafeErrorMessage(auth.ErrExpiredToken))
	assert.Equal(t, "Flashcard not found", GetSafeErrorMessage(store.ErrFlashcardNotFound))
	assert.Equal(t, "Generation not found", GetSafeErrorMessage(store.ErrGenerationNotFound))
	assert.Equal(t, "Flashcard already deleted", GetSafeErrorMessage(store.ErrFlashcardAlreadyDeleted))

	timeout := fmt.Errorf("%w: %w after 60 seconds", generation.ErrGenerationFailed, generation.ErrGenerationTimeout)
	assert.Equal(t, "Generation failed: AI service timeout after 60 seconds", GetSafeErrorMessage(timeout))

	leaky := fmt.Errorf("%w: rejected key sk-or-v1-0123456789abcdef", generation.ErrGenerationFailed)
	assert.Equal(t, "Generation failed: rejected key [REDACTED_KEY]", GetSafeErrorMessage(leaky))
}
