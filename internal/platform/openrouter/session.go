package openrouter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Session is an immutable chat conversation: ordered messages, model
// settings and an optional structured-output format. Every method returns a
// new Session and leaves the receiver untouched, so a Session can be shared
// freely between goroutines.
type Session struct {
	messages       []Message
	model          ModelConfig
	responseFormat *ResponseFormat
}

// NewSession starts an empty conversation with the given model settings.
// An empty model name falls back to DefaultModel.
func NewSession(model ModelConfig) Session {
	if model.Name == "" {
		model.Name = DefaultModel
	}
	return Session{model: model}
}

// WithResponseFormat requires replies to match the given JSON schema,
// replacing any earlier format.
func (s Session) WithResponseFormat(f ResponseFormat) (Session, error) {
	if err := validateResponseFormat(f); err != nil {
		return s, err
	}

	schema := *f.JSONSchema
	schema.Schema = append(json.RawMessage(nil), f.JSONSchema.Schema...)
	f.JSONSchema = &schema

	s.responseFormat = &f
	return s, nil
}

func validateResponseFormat(f ResponseFormat) error {
	if f.Type != ResponseFormatJSONSchema {
		return fmt.Errorf("%w: type must be %q", ErrInvalidResponseFormat, ResponseFormatJSONSchema)
	}
	if f.JSONSchema == nil {
		return fmt.Errorf("%w: json_schema is required", ErrInvalidResponseFormat)
	}
	if strings.TrimSpace(f.JSONSchema.Name) == "" {
		return fmt.Errorf("%w: schema name is required", ErrInvalidResponseFormat)
	}
	var obj map[string]any
	if err := json.Unmarshal(f.JSONSchema.Schema, &obj); err != nil || obj == nil {
		return fmt.Errorf("%w: schema must be a JSON object", ErrInvalidResponseFormat)
	}
	return nil
}

// WithModel merges u into the current model settings.
func (s Session) WithModel(u ModelUpdate) Session {
	m := s.model
	if u.Name != "" {
		m.Name = u.Name
	}
	if u.Temperature != nil {
		m.Temperature = Float(*u.Temperature)
	}
	if u.MaxTokens != nil {
		m.MaxTokens = Int(*u.MaxTokens)
	}
	if u.TopP != nil {
		m.TopP = Float(*u.TopP)
	}
	if u.FrequencyPenalty != nil {
		m.FrequencyPenalty = Float(*u.FrequencyPenalty)
	}
	if u.PresencePenalty != nil {
		m.PresencePenalty = Float(*u.PresencePenalty)
	}
	s.model = m
	return s
}

// WithMessage appends a message as is. Use it for messages already built by
// SystemMessage or a prompt builder.
func (s Session) WithMessage(m Message) Session {
	msgs := make([]Message, len(s.messages), len(s.messages)+1)
	copy(msgs, s.messages)
	s.messages = append(msgs, m)
	return s
}

// History returns a copy of the messages in insertion order.
func (s Session) History() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s Session) Len() int {
	return len(s.messages)
}

// Clear drops all messages and keeps the model and response format.
func (s Session) Clear() Session {
	s.messages = nil
	return s
}

// Reset drops all messages and the response format.
func (s Session) Reset() Session {
	s.messages = nil
	s.responseFormat = nil
	return s
}

// Model returns the current model settings.
func (s Session) Model() ModelConfig {
	return s.model
}

// ResponseFormat returns the configured format, if any.
func (s Session) ResponseFormat() (ResponseFormat, bool) {
	if s.responseFormat == nil {
		return ResponseFormat{}, false
	}
	return *s.responseFormat, true
}

// request converts the session to a go-openai request. go-openai omits zero
// sampling parameters, so an explicit 0 temperature or penalty leaves the
// provider default in place, as does a nil value.
func (s Session) request() openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:    s.model.Name,
		Messages: make([]openai.ChatCompletionMessage, 0, len(s.messages)),
	}
	for _, m := range s.messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	if v := s.model.Temperature; v != nil {
		req.Temperature = float32(*v)
	}
	if v := s.model.MaxTokens; v != nil {
		req.MaxTokens = *v
	}
	if v := s.model.TopP; v != nil {
		req.TopP = float32(*v)
	}
	if v := s.model.FrequencyPenalty; v != nil {
		req.FrequencyPenalty = float32(*v)
	}
	if v := s.model.PresencePenalty; v != nil {
		req.PresencePenalty = float32(*v)
	}
	if f := s.responseFormat; f != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   f.JSONSchema.Name,
				Strict: f.JSONSchema.Strict,
				Schema: f.JSONSchema.Schema,
			},
		}
	}
	return req
}
