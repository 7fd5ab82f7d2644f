package openrouter

import (
	"regexp"
	"strings"
)

// Named system prompt templates.
const (
	TemplateFlashcardGenerator = "flashcard_generator"
	TemplateGeneralAssistant   = "general_assistant"
)

var systemTemplates = map[string]string{
	TemplateFlashcardGenerator: `You are an expert educational content creator who writes high-quality flashcards.
Analyze the provided text and create clear, concise flashcards that help learners understand and retain its key concepts.
Each flashcard has one focused question on the front and a complete answer on the back.
Cover important concepts, definitions and relationships.
IMPORTANT: Always write the flashcards in the SAME LANGUAGE as the input text. Polish input gets Polish flashcards, English input gets English flashcards.
Never translate, and keep one language across all flashcards.`,

	TemplateGeneralAssistant: `You are a helpful, accurate, and friendly AI assistant. Provide clear and concise responses.`,
}

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// SystemMessage builds a system message from a named template, or from
// template itself when no template has that name. {{key}} placeholders are
// replaced from vars; placeholders without a value are left in place.
func SystemMessage(template string, vars map[string]string) Message {
	text, ok := systemTemplates[template]
	if !ok {
		text = template
	}

	if len(vars) > 0 {
		text = placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
			key := placeholderPattern.FindStringSubmatch(m)[1]
			if v, ok := vars[key]; ok {
				return v
			}
			return m
		})
	}

	return Message{Role: RoleSystem, Content: strings.TrimSpace(text)}
}
