package openrouter

import (
	"encoding/json"

	"github.com/sashabaranov/go-openai"
)

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ModelConfig selects the model and its sampling parameters. Nil
// parameters are omitted from requests so the provider default applies.
type ModelConfig struct {
	Name             string
	Temperature      *float64
	MaxTokens        *int
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
}

// Default model settings.
const (
	DefaultModel       = "openai/gpt-4o-mini"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

// DefaultModelConfig returns the model settings used when none are given.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Name:        DefaultModel,
		Temperature: Float(DefaultTemperature),
		MaxTokens:   Int(DefaultMaxTokens),
	}
}

// ModelUpdate is a partial ModelConfig. Empty Name and nil fields leave the
// current values in place.
type ModelUpdate struct {
	Name             string
	Temperature      *float64
	MaxTokens        *int
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// ResponseFormatJSONSchema is the only response format type the client accepts.
const ResponseFormatJSONSchema = "json_schema"

// ResponseFormat asks the model for structured output matching a schema.
type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

// JSONSchema is a named JSON schema.
type JSONSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

// Response is the parsed chat-completions reply. It embeds the go-openai
// envelope, so ID, Model, Created, Choices and Usage read as usual.
type Response struct {
	openai.ChatCompletionResponse
}

// Content returns the text of the first choice. Only meaningful on a
// response returned by Client.Send, which guarantees the choice exists.
func (r *Response) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
