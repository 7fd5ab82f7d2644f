package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every store implementation. Implementations wrap them
// with context and callers match with errors.Is.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicate         = errors.New("entity already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrUpdateFailed      = errors.New("update failed")
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrGenerationNotFound is also returned for generations owned by another user.
	ErrGenerationNotFound = fmt.Errorf("%w: generation", ErrNotFound)
	// ErrFlashcardNotFound is also returned for flashcards owned by another user.
	ErrFlashcardNotFound = fmt.Errorf("%w: flashcard", ErrNotFound)
	// ErrFlashcardAlreadyDeleted reports a second soft delete of the same card.
	ErrFlashcardAlreadyDeleted = fmt.Errorf("%w: flashcard already deleted", ErrUpdateFailed)
)

// IsNotFoundError reports whether err is any not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is a uniqueness violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError records which entity and operation a persistence failure came from.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := e.Entity + " " + e.Operation + ": " + e.Message
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError builds a StoreError wrapping err, which may be nil.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
