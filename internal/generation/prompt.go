package generation

import (
	"fmt"
	"strings"

	"github.com/phrazzld/scry-cards/internal/platform/openrouter"
)

// Difficulty levels understood by the prompt.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// PromptOptions tunes the flashcard request. Zero values fall back to
// DefaultPromptOptions.
type PromptOptions struct {
	MinCards   int
	MaxCards   int
	Difficulty string
	FocusAreas []string
}

// DefaultPromptOptions asks for 1 to 30 intermediate cards.
func DefaultPromptOptions() PromptOptions {
	return PromptOptions{
		MinCards:   1,
		MaxCards:   MaxFlashcards,
		Difficulty: DifficultyIntermediate,
	}
}

// BuildFlashcardPrompt builds the user message asking for flashcards from
// inputText. The text is embedded verbatim after the instructions.
func BuildFlashcardPrompt(inputText string, opts PromptOptions) openrouter.Message {
	def := DefaultPromptOptions()
	if opts.MinCards <= 0 {
		opts.MinCards = def.MinCards
	}
	if opts.MaxCards <= 0 {
		opts.MaxCards = def.MaxCards
	}
	if opts.Difficulty == "" {
		opts.Difficulty = def.Difficulty
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d-%d flashcards from the following text. ", opts.MinCards, opts.MaxCards)
	fmt.Fprintf(&b, "Target difficulty level: %s. ", opts.Difficulty)

	var areas []string
	for _, a := range opts.FocusAreas {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}
	if len(areas) > 0 {
		fmt.Fprintf(&b, "Focus on these areas: %s. ", strings.Join(areas, ", "))
	}

	b.WriteString("CRITICAL: Generate ALL flashcards in the EXACT SAME LANGUAGE as the input text below. ")
	b.WriteString("Do not translate. Use the same language for both front and back of each flashcard. ")
	b.WriteString("\n\nText to analyze:\n\n")
	b.WriteString(inputText)

	return openrouter.Message{Role: openrouter.RoleUser, Content: b.String()}
}

// SystemPrompt returns the flashcard generator system message.
func SystemPrompt() openrouter.Message {
	return openrouter.SystemMessage(openrouter.TemplateFlashcardGenerator, nil)
}
