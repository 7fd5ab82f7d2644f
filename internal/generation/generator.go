package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/platform/openrouter"
)

// CardDraft is one front/back pair proposed by the model.
type CardDraft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator defines the interface for generating flashcards from text.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
type Generator interface {
	// GenerateFlashcards asks the model for flashcards covering inputText.
	// An empty slice with a nil error means the model proposed nothing.
	GenerateFlashcards(ctx context.Context, inputText string) ([]CardDraft, error)
}

// ChatSender is the part of openrouter.Client the generator needs.
type ChatSender interface {
	Send(ctx context.Context, s openrouter.Session, content string, role openrouter.Role) (openrouter.Session, *openrouter.Response, error)
}

// OpenRouterGenerator implements Generator with one fresh chat session per call.
type OpenRouterGenerator struct {
	client ChatSender
	model  openrouter.ModelConfig
	prompt PromptOptions
	logger *slog.Logger
}

// NewOpenRouterGenerator creates a generator that sends requests through client.
func NewOpenRouterGenerator(client ChatSender, model openrouter.ModelConfig, logger *slog.Logger) (*OpenRouterGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: chat client cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenRouterGenerator{
		client: client,
		model:  model,
		prompt: DefaultPromptOptions(),
		logger: logger.With(slog.String("component", "openrouter_generator")),
	}, nil
}

// flashcardsReply is the structured reply. Flashcards is a pointer so a
// missing field can be told apart from an empty array.
type flashcardsReply struct {
	Flashcards *[]CardDraft `json:"flashcards"`
}

// GenerateFlashcards implements Generator.
func (g *OpenRouterGenerator) GenerateFlashcards(ctx context.Context, inputText string) ([]CardDraft, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	session, err := openrouter.NewSession(g.model).WithResponseFormat(FlashcardsResponseFormat())
	if err != nil {
		return nil, err
	}
	session = session.WithMessage(SystemPrompt())

	prompt := BuildFlashcardPrompt(inputText, g.prompt)
	_, resp, err := g.client.Send(ctx, session, prompt.Content, prompt.Role)
	if err != nil {
		return nil, err
	}

	var reply flashcardsReply
	if err := json.Unmarshal([]byte(resp.Content()), &reply); err != nil {
		log.WarnContext(ctx, "model reply does not match the flashcards schema",
			slog.String("error", err.Error()))
		return nil, ErrInvalidFlashcards
	}
	if reply.Flashcards == nil {
		return nil, ErrInvalidFlashcards
	}

	log.DebugContext(ctx, "model proposed flashcards",
		slog.Int("count", len(*reply.Flashcards)),
		slog.String("response_id", resp.ID))
	return *reply.Flashcards, nil
}
