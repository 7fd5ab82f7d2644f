package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/store"
)

// DefaultTimeout bounds the model phase of one generation.
const DefaultTimeout = 60 * time.Second

// Config holds the orchestration settings.
type Config struct {
	// Model is recorded on every generation and error row.
	Model string
	// Timeout bounds the model phase. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Result is the outcome of a successful generation.
type Result struct {
	Generation *domain.Generation `json:"generation"`
	Flashcards []domain.Flashcard `json:"flashcards"`
}

// Service runs the generation pipeline. It is safe for concurrent use;
// every call builds its own chat session.
type Service struct {
	generations store.GenerationStore
	errorLog    store.GenerationErrorStore
	generator   Generator
	model       string
	timeout     time.Duration
	logger      *slog.Logger
}

// NewService creates a Service.
// It returns an error if any of the required dependencies are nil.
func NewService(
	generations store.GenerationStore,
	errorLog store.GenerationErrorStore,
	generator Generator,
	logger *slog.Logger,
	cfg Config,
) (*Service, error) {
	if generations == nil {
		return nil, fmt.Errorf("%w: generation store cannot be nil", ErrInvalidConfig)
	}
	if errorLog == nil {
		return nil, fmt.Errorf("%w: generation error store cannot be nil", ErrInvalidConfig)
	}
	if generator == nil {
		return nil, fmt.Errorf("%w: generator cannot be nil", ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model cannot be empty", ErrInvalidConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		generations: generations,
		errorLog:    errorLog,
		generator:   generator,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		logger:      logger.With(slog.String("component", "generation_service")),
	}, nil
}

// InitiateGeneration records a generation for userID, asks the model for
// flashcards and returns them as unsaved proposals.
//
// A failure to create the generation record is returned as is. Any failure
// after that is recorded as a GenerationError and returned wrapped in
// ErrGenerationFailed.
func (s *Service) InitiateGeneration(ctx context.Context, userID uuid.UUID, inputText string) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	gen, err := domain.NewGeneration(userID, s.model, utf8.RuneCountInString(inputText), Fingerprint(inputText))
	if err != nil {
		return nil, err
	}
	if err := s.generations.Create(ctx, gen); err != nil {
		log.ErrorContext(ctx, "failed to create generation record", slog.String("error", err.Error()))
		return nil, err
	}
	log = log.With(slog.Int64("generation_id", gen.ID))

	start := time.Now()
	drafts, err := s.generate(ctx, inputText)
	if err == nil && len(drafts) == 0 {
		err = ErrNoFlashcards
	}
	elapsed := time.Since(start)
	if err != nil {
		return nil, s.fail(ctx, log, gen, err, elapsed)
	}

	now := time.Now().UTC()
	proposals := make([]domain.Flashcard, len(drafts))
	for i, d := range drafts {
		proposals[i] = domain.NewProposal(i, userID, gen.ID, d.Front, d.Back, now)
	}

	durationMS := elapsed.Milliseconds()
	if err := s.generations.UpdateDuration(ctx, gen.ID, durationMS); err != nil {
		log.WarnContext(ctx, "failed to update generation duration", slog.String("error", err.Error()))
	}
	gen.GenerationDuration = durationMS

	observeGeneration(outcomeSucceeded, elapsed, len(proposals))
	log.InfoContext(ctx, "generation succeeded",
		slog.Int("proposals", len(proposals)),
		slog.Int64("duration_ms", durationMS))

	return &Result{Generation: gen, Flashcards: proposals}, nil
}

// generate runs the generator under the generation deadline. The deadline
// cancels the in-flight request.
func (s *Service) generate(ctx context.Context, inputText string) ([]CardDraft, error) {
	aiCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		drafts []CardDraft
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		drafts, err := s.generator.GenerateFlashcards(aiCtx, inputText)
		done <- outcome{drafts: drafts, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil && ctx.Err() == nil && errors.Is(aiCtx.Err(), context.DeadlineExceeded) {
			return nil, s.timeoutError()
		}
		return o.drafts, o.err
	case <-aiCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, s.timeoutError()
	}
}

func (s *Service) timeoutError() error {
	if s.timeout%time.Second == 0 {
		return fmt.Errorf("%w after %d seconds", ErrGenerationTimeout, int64(s.timeout/time.Second))
	}
	return fmt.Errorf("%w after %s", ErrGenerationTimeout, s.timeout)
}

// fail records the failure and builds the error returned to the caller.
// The error row is written even when ctx is already done.
func (s *Service) fail(ctx context.Context, log *slog.Logger, gen *domain.Generation, cause error, elapsed time.Duration) error {
	outcome := outcomeFailed
	if errors.Is(cause, ErrGenerationTimeout) {
		outcome = outcomeTimeout
	}
	observeGeneration(outcome, elapsed, 0)

	log.ErrorContext(ctx, "generation failed",
		slog.String("error", cause.Error()),
		slog.Int64("elapsed_ms", elapsed.Milliseconds()))

	ge, err := domain.NewGenerationError(gen.ID, gen.Model, cause)
	if err != nil {
		log.ErrorContext(ctx, "failed to build generation error", slog.String("error", err.Error()))
	} else if err := s.errorLog.Create(context.WithoutCancel(ctx), ge); err != nil {
		log.ErrorContext(ctx, "failed to record generation error", slog.String("error", err.Error()))
	}

	return fmt.Errorf("%w: %w", ErrGenerationFailed, cause)
}
