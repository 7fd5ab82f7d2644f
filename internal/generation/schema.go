package generation

import (
	"encoding/json"

	"github.com/phrazzld/scry-cards/internal/platform/openrouter"
)

// MaxFlashcards is the largest number of cards one generation may propose.
const MaxFlashcards = 30

// FlashcardsSchemaName names the structured-output schema sent to the model.
const FlashcardsSchemaName = "flashcards_generation"

var flashcardsSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "flashcards": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "front": {"type": "string", "description": "The question or prompt on the front of the flashcard"},
          "back": {"type": "string", "description": "The answer or explanation on the back of the flashcard"}
        },
        "required": ["front", "back"],
        "additionalProperties": false
      },
      "minItems": 1,
      "maxItems": 30,
      "description": "Array of flashcards generated from the input text"
    }
  },
  "required": ["flashcards"],
  "additionalProperties": false
}`)

// FlashcardsResponseFormat is the strict json_schema format requiring
// {"flashcards": [{"front": ..., "back": ...}]} with 1 to 30 items.
func FlashcardsResponseFormat() openrouter.ResponseFormat {
	return openrouter.ResponseFormat{
		Type: openrouter.ResponseFormatJSONSchema,
		JSONSchema: &openrouter.JSONSchema{
			Name:   FlashcardsSchemaName,
			Strict: true,
			Schema: flashcardsSchema,
		},
	}
}
