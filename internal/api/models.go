package api

import (
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/service"
)

// Input text bounds for a generation, counted in characters.
const (
	MinInputTextLength = 1000
	MaxInputTextLength = 10000
)

// GenerateRequest defines the payload for starting a generation.
type GenerateRequest struct {
	InputText string `json:"input_text" validate:"required,min=1000,max=10000"`
}

// GenerationResponse is returned by a successful generation. Flashcards are
// unsaved proposals with negative IDs.
type GenerationResponse struct {
	Message    string             `json:"message"`
	Generation *domain.Generation `json:"generation"`
	Flashcards []domain.Flashcard `json:"flashcards"`
}

// GenerationListResponse is one page of the caller's generations.
type GenerationListResponse struct {
	Generations []*domain.Generation `json:"generations"`
	Pagination  service.Pagination   `json:"pagination"`
}

// GenerationErrorsResponse lists the failures of one generation.
type GenerationErrorsResponse struct {
	GenerationID int64                     `json:"generation_id"`
	Errors       []*domain.GenerationError `json:"errors"`
}

// FlashcardRequest is one card in a create request.
type FlashcardRequest struct {
	Front        string `json:"front"         validate:"required,max=200"`
	Back         string `json:"back"          validate:"required,max=500"`
	Source       string `json:"source"        validate:"required,oneof=manual ai-full ai-edited"`
	GenerationID *int64 `json:"generation_id" validate:"omitempty,gt=0"`
}

// CreateFlashcardsRequest defines the payload for saving flashcards.
type CreateFlashcardsRequest struct {
	Flashcards []FlashcardRequest `json:"flashcards" validate:"required,min=1,max=30,dive"`
}

// FlashcardsResponse is returned after saving flashcards.
type FlashcardsResponse struct {
	Message    string              `json:"message"`
	Flashcards []*domain.Flashcard `json:"flashcards"`
}

// FlashcardListResponse is one page of the caller's flashcards.
type FlashcardListResponse struct {
	Flashcards []*domain.Flashcard `json:"flashcards"`
	Pagination service.Pagination  `json:"pagination"`
}

// toFlashcardInputs converts validated request items to service inputs.
func toFlashcardInputs(items []FlashcardRequest) []service.FlashcardInput {
	out := make([]service.FlashcardInput, len(items))
	for i, it := range items {
		out[i] = service.FlashcardInput{
			Front:        it.Front,
			Back:         it.Back,
			Source:       domain.FlashcardSource(it.Source),
			GenerationID: it.GenerationID,
		}
	}
	return out
}
