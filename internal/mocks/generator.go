package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-cards/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFlashcardsFn allows test cases to mock the GenerateFlashcards behavior
	GenerateFlashcardsFn func(ctx context.Context, inputText string) ([]generation.CardDraft, error)

	// Default response values
	Drafts []generation.CardDraft
	Err    error

	mu sync.Mutex
	// InputTexts records the text of every call.
	InputTexts []string
}

// GenerateFlashcards implements the generation.Generator interface
func (m *MockGenerator) GenerateFlashcards(ctx context.Context, inputText string) ([]generation.CardDraft, error) {
	m.mu.Lock()
	m.InputTexts = append(m.InputTexts, inputText)
	m.mu.Unlock()

	if m.GenerateFlashcardsFn != nil {
		return m.GenerateFlashcardsFn(ctx, inputText)
	}
	return m.Drafts, m.Err
}

// Calls returns the number of GenerateFlashcards calls.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.InputTexts)
}

// NewMockGeneratorWithDrafts creates a MockGenerator that returns the given drafts
func NewMockGeneratorWithDrafts(drafts ...generation.CardDraft) *MockGenerator {
	return &MockGenerator{Drafts: drafts}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// NewBlockingMockGenerator creates a MockGenerator that blocks until its
// context is done and then returns the context error.
func NewBlockingMockGenerator() *MockGenerator {
	return &MockGenerator{
		GenerateFlashcardsFn: func(ctx context.Context, _ string) ([]generation.CardDraft, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
}
