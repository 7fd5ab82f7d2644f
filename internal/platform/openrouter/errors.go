package openrouter

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned by NewClient when no API key is configured.
	ErrMissingAPIKey = errors.New("OpenRouter API key is required")

	// ErrInvalidResponseFormat is returned when a response format is not a
	// named json_schema with an object schema.
	ErrInvalidResponseFormat = errors.New("invalid response format")

	// ErrEmptyMessage is returned when the message text is empty or only whitespace.
	ErrEmptyMessage = errors.New("Message content cannot be empty")

	// ErrInvalidRole is returned when Send is given a role other than system or user.
	ErrInvalidRole = errors.New("invalid message role")

	// ErrInvalidResponse is returned when a 2xx reply does not have the
	// expected shape. It is never retried.
	ErrInvalidResponse = errors.New("Invalid API response")
)

// Statuses that warrant another attempt.
var retryableStatuses = map[int]bool{
	408: true,
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// IsRetryableStatus reports whether an HTTP status should be retried.
func IsRetryableStatus(code int) bool {
	return retryableStatuses[code]
}

// APIError describes a failed call to the chat-completions endpoint.
// StatusCode is 0 for network failures that produced no HTTP reply.
type APIError struct {
	StatusCode int
	Message    string
	Retryable  bool
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newStatusError(status int, statusText, detail string) *APIError {
	msg := fmt.Sprintf("OpenRouter API error: %d %s", status, statusText)
	if detail != "" {
		msg = fmt.Sprintf("%s. %s", msg, detail)
	}
	return &APIError{
		StatusCode: status,
		Message:    msg,
		Retryable:  IsRetryableStatus(status),
	}
}

func newTimeoutError(timeoutMS int64, err error) *APIError {
	return &APIError{
		StatusCode: 408,
		Message:    fmt.Sprintf("OpenRouter API error: request timeout after %dms", timeoutMS),
		Retryable:  true,
		Err:        err,
	}
}

func newNetworkError(err error) *APIError {
	return &APIError{
		Message:   fmt.Sprintf("OpenRouter API network error: %v", err),
		Retryable: true,
		Err:       err,
	}
}

func invalidResponse(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidResponse, reason)
}
