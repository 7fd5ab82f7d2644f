package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/scry-cards/internal/api/shared"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/generation"
	"github.com/phrazzld/scry-cards/internal/redact"
	"github.com/phrazzld/scry-cards/internal/service"
	"github.com/phrazzld/scry-cards/internal/service/auth"
	"github.com/phrazzld/scry-cards/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Generation failures keep their diagnostic message but are server errors
	case errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusInternalServerError

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Conflict errors
	case errors.Is(err, store.ErrFlashcardAlreadyDeleted):
		return http.StatusConflict

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrNotOwned):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, service.ErrGenerationNotOwned),
		errors.Is(err, service.ErrNoFlashcards),
		errors.Is(err, service.ErrTooManyFlashcards),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, generation.ErrGenerationFailed):
		return redact.Error(err)

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, store.ErrFlashcardAlreadyDeleted):
		return "Flashcard already deleted"
	case errors.Is(err, store.ErrFlashcardNotFound):
		return "Flashcard not found"
	case errors.Is(err, store.ErrGenerationNotFound):
		return "Generation not found"
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrNotOwned):
		return "Resource not found"

	// Caller input errors carry messages built from our own sentinels
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrGenerationNotOwned),
		errors.Is(err, service.ErrNoFlashcards),
		errors.Is(err, service.ErrTooManyFlashcards):
		return err.Error()
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for err. fallback replaces the
// generic message of unexpected server errors when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" &&
		!errors.Is(err, generation.ErrGenerationFailed) {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
