package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed wraps every failure of the model phase. Callers see
	// "Generation failed: <cause>".
	ErrGenerationFailed = errors.New("Generation failed")

	// ErrGenerationTimeout is returned when the model phase exceeds the
	// generation deadline.
	ErrGenerationTimeout = errors.New("AI service timeout")

	// ErrNoFlashcards is returned when the model replied with an empty list.
	ErrNoFlashcards = errors.New("No flashcards generated by AI service")

	// ErrInvalidFlashcards is returned when the reply does not carry a
	// flashcards array.
	ErrInvalidFlashcards = errors.New("Invalid response format: no flashcards returned")

	// ErrInvalidConfig is returned when the service or generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
