package service

import (
	"errors"
	"fmt"
)

// Expected failure conditions. The API layer maps these to status codes;
// anything else is wrapped in a ServiceError and reported as a 500.
var (
	// ErrNotOwned is mapped to 404 so that ownership is not disclosed.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrGenerationNotOwned means an AI-sourced card references a generation
	// that is missing or belongs to someone else.
	ErrGenerationNotOwned = errors.New("generation not found or does not belong to the user")

	ErrNoFlashcards      = errors.New("at least one flashcard must be provided")
	ErrTooManyFlashcards = fmt.Errorf("cannot create more than %d flashcards at once", MaxFlashcardsPerRequest)
)

// ServiceError wraps an unexpected failure with the service and operation
// that produced it.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ServiceError) Error() string {
	msg := e.Service + "." + e.Op + " failed"
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}
