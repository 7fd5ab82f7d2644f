package generation_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/config"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/generation"
	"github.com/phrazzld/scry-cards/internal/mocks"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/platform/openrouter"
	"github.com/phrazzld/scry-cards/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "openai/gpt-4o-mini"

type fixture struct {
	generations *mocks.MockGenerationStore
	errorLog    *mocks.MockGenerationErrorStore
	generator   *mocks.MockGenerator
	logs        *logger.LogBuffer
	service     *generation.Service
}

func newFixture(t *testing.T, gen *mocks.MockGenerator, timeout time.Duration) *fixture {
	t.Helper()

	log, buf := logger.NewBufferLogger()
	f := &fixture{
		generations: &mocks.MockGenerationStore{},
		errorLog:    &mocks.MockGenerationErrorStore{},
		generator:   gen,
		logs:        buf,
	}
	svc, err := generation.NewService(f.generations, f.errorLog, gen, log, generation.Config{
		Model:   testModel,
		Timeout: timeout,
	})
	require.NoError(t, err)
	f.service = svc
	return f
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	t.Parallel()

	gens := &mocks.MockGenerationStore{}
	errs := &mocks.MockGenerationErrorStore{}
	gen := &mocks.MockGenerator{}
	cfg := generation.Config{Model: testModel}

	_, err := generation.NewService(nil, errs, gen, nil, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	_, err = generation.NewService(gens, nil, gen, nil, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	_, err = generation.NewService(gens, errs, nil, nil, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	_, err = generation.NewService(gens, errs, gen, nil, generation.Config{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestInitiateGenerationSuccess(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGeneratorWithDrafts(
		generation.CardDraft{Front: "Q1", Back: "A1"},
		generation.CardDraft{Front: "Q2", Back: "A2"},
	)
	f := newFixture(t, gen, time.Second)
	userID := uuid.New()
	input := strings.Repeat("a", 1200)

	before := time.Now().UTC()
	res, err := f.service.InitiateGeneration(context.Background(), userID, input)
	require.NoError(t, err)

	require.Len(t, f.generations.Created, 1)
	g := res.Generation
	assert.Same(t, f.generations.Created[0], g)
	assert.Equal(t, int64(1), g.ID)
	assert.Equal(t, userID, g.UserID)
	assert.Equal(t, testModel, g.Model)
	assert.Equal(t, 1200, g.SourceTextLength)
	assert.Equal(t, generation.Fingerprint(input), g.SourceTextHash)

	stored, ok := f.generations.Duration(g.ID)
	require.True(t, ok, "duration must be persisted")
	assert.Equal(t, stored, g.GenerationDuration)

	require.Len(t, res.Flashcards, 2)
	for i, card := range res.Flashcards {
		assert.Equal(t, -int64(i+1), card.ID)
		assert.Equal(t, userID, card.UserID)
		require.NotNil(t, card.GenerationID)
		assert.Equal(t, g.ID, *card.GenerationID)
		assert.Equal(t, domain.SourceAIFull, card.Source)
		assert.False(t, card.IsDeleted)
		assert.False(t, card.CreatedAt.Before(before.Add(-time.Second)))
	}
	assert.Equal(t, "Q1", res.Flashcards[0].Front)
	assert.Equal(t, "A2", res.Flashcards[1].Back)

	assert.Empty(t, f.errorLog.Errors())
	assert.Equal(t, []string{input}, gen.InputTexts)
}

func TestInitiateGenerationCountsRunes(t *testing.T) {
	t.Parallel()

	f := newFixture(t, mocks.NewMockGeneratorWithDrafts(generation.CardDraft{Front: "q", Back: "a"}), time.Second)
	res, err := f.service.InitiateGeneration(context.Background(), uuid.New(), "żółw")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Generation.SourceTextLength)
}

func TestInitiateGenerationCreateFailure(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGeneratorWithDrafts(generation.CardDraft{Front: "q", Back: "a"})
	f := newFixture(t, gen, time.Second)
	storeErr := store.NewStoreError("generation", "create", "failed to insert generation", errors.New("connection reset"))
	f.generations.CreateFn = func(context.Context, *domain.Generation) error { return storeErr }

	res, err := f.service.InitiateGeneration(context.Background(), uuid.New(), "text")
	assert.Nil(t, res)
	assert.Same(t, storeErr, err, "store error is returned as is")
	assert.NotErrorIs(t, err, generation.ErrGenerationFailed)
	assert.Zero(t, gen.Calls(), "model is not called without a record")
	assert.Empty(t, f.errorLog.Errors())
}

func TestInitiateGenerationRejectsNilUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mocks.MockGenerator{}, time.Second)
	_, err := f.service.InitiateGeneration(context.Background(), uuid.Nil, "text")
	assert.ErrorIs(t, err, domain.ErrGenerationUserIDEmpty)
	assert.Empty(t, f.generations.Created)
}

func TestInitiateGenerationModelFailure(t *testing.T) {
	t.Parallel()

	cause := &openrouter.APIError{StatusCode: 401, Message: "OpenRouter API error: 401 Unauthorized"}
	f := newFixture(t, mocks.NewMockGeneratorWithError(cause), time.Second)

	res, err := f.service.InitiateGeneration(context.Background(), uuid.New(), "text")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, "Generation failed: OpenRouter API error: 401 Unauthorized", err.Error())
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	var apiErr *openrouter.APIError
	assert.ErrorAs(t, err, &apiErr)

	logged := f.errorLog.Errors()
	require.Len(t, logged, 1)
	assert.Equal(t, f.generations.Created[0].ID, logged[0].GenerationID)
	assert.Equal(t, "OpenRouter API error: 401 Unauthorized", logged[0].ErrorMessage)
	assert.Equal(t, testModel, logged[0].Model)

	var detail map[string]any
	require.NoError(t, json.Unmarshal(logged[0].ErrorDetail, &detail))
	assert.Equal(t, "*openrouter.APIError", detail["error_type"])

	_, updated := f.generations.Duration(f.generations.Created[0].ID)
	assert.False(t, updated, "duration stays 0 on failure")
}

func TestInitiateGenerationEmptyResult(t *testing.T) {
	t.Parallel()

	f := newFixture(t, mocks.NewMockGeneratorWithDrafts(), time.Second)

	_, err := f.service.InitiateGeneration(context.Background(), uuid.New(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrNoFlashcards)
	assert.Equal(t, "Generation failed: No flashcards generated by AI service", err.Error())
	require.Len(t, f.errorLog.Errors(), 1)
	assert.Equal(t, "No flashcards generated by AI service", f.errorLog.Errors()[0].ErrorMessage)
}

func TestInitiateGenerationTimeout(t *testing.T) {
	t.Parallel()

	gen := mocks.NewBlockingMockGenerator()
	f := newFixture(t, gen, 30*time.Millisecond)

	start := time.Now()
	_, err := f.service.InitiateGeneration(context.Background(), uuid.New(), "text")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, err, generation.ErrGenerationTimeout)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "timeout")
	assert.Equal(t, "Generation failed: AI service timeout after 30ms", err.Error())

	logged := f.errorLog.Errors()
	require.Len(t, logged, 1)
	assert.Equal(t, "AI service timeout after 30ms", logged[0].ErrorMessage)
	assert.NoError(t, f.errorLog.Contexts[0].Err(), "error row is written with a live context")
}

func TestInitiateGenerationTimeoutMessageInSeconds(t *testing.T) {
	t.Parallel()

	gen := mocks.NewBlockingMockGenerator()
	f := newFixture(t, gen, time.Second)

	_, err := f.service.InitiateGeneration(context.Background(), uuid.New(), "text")
	require.Error(t, err)
	assert.Equal(t, "Generation failed: AI service timeout after 1 seconds", err.Error())
}

func TestInitiateGenerationCallerCancellation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, mocks.NewBlockingMockGenerator(), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := f.service.InitiateGeneration(ctx, uuid.New(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, generation.ErrGenerationTimeout)
	require.Len(t, f.errorLog.Errors(), 1)
	assert.NoError(t, f.errorLog.Contexts[0].Err())
}

func TestInitiateGenerationErrorLogFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("upstream exploded")
	f := newFixture(t, mocks.NewMockGeneratorWithError(cause), time.Second)
	f.errorLog.CreateFn = func(context.Context, *domain.GenerationError) error {
		return errors.New("insert failed")
	}

	_, err := f.service.InitiateGeneration(context.Background(), uuid.New(), "text")
	require.Error(t, err)
	assert.Equal(t, "Generation failed: upstream exploded", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, f.logs.HasMessage(slog.LevelError, "failed to record generation error"))
}

func TestInitiateGenerationDurationUpdateFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, mocks.NewMockGeneratorWithDrafts(generation.CardDraft{Front: "q", Back: "a"}), time.Second)
	f.generations.UpdateDurationFn = func(context.Context, int64, int64) error {
		return store.ErrGenerationNotFound
	}

	res, err := f.service.InitiateGeneration(context.Background(), uuid.New(), "text")
	require.NoError(t, err)
	assert.Len(t, res.Flashcards, 1)
	assert.True(t, f.logs.HasMessage(slog.LevelWarn, "failed to update generation duration"))
}

func TestInitiateGenerationConcurrentCalls(t *testing.T) {
	t.Parallel()

	f := newFixture(t, mocks.NewMockGeneratorWithDrafts(generation.CardDraft{Front: "q", Back: "a"}), time.Second)

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			_, err := f.service.InitiateGeneration(context.Background(), uuid.New(), fmt.Sprintf("text %d", i))
			errs <- err
		}(i)
	}
	for i := 0; i < n; i++ {
		assert.NoError(t, <-errs)
	}
	assert.Equal(t, n, f.generator.Calls())
}

// TestInitiateGenerationEndToEnd runs the pipeline against a fake
// chat-completions endpoint through the real client.
func TestInitiateGenerationEndToEnd(t *testing.T) {
	t.Parallel()

	var gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ResponseFormat struct {
				JSONSchema struct {
					Name string `json:"name"`
				} `json:"json_schema"`
			} `json:"response_format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotFormat = body.ResponseFormat.JSONSchema.Name

		time.Sleep(15 * time.Millisecond)
		content, _ := json.Marshal(map[string]any{"flashcards": []map[string]string{
			{"front": "What is X?", "back": "X is a letter."},
			{"front": "What is Y?", "back": "Y is a letter."},
			{"front": "What is Z?", "back": "Z is a letter."},
		}})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "gen-e2e",
			"model":   testModel,
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": string(content)}}},
		})
	}))
	defer srv.Close()

	log, _ := logger.NewBufferLogger()
	client, err := openrouter.NewClient(log, config.LLMConfig{
		APIKey:         "sk-or-test",
		Endpoint:       srv.URL,
		RequestTimeout: time.Second,
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
		RetryMaxDelay:  5 * time.Millisecond,
	})
	require.NoError(t, err)
	gen, err := generation.NewOpenRouterGenerator(client, openrouter.ModelConfig{Name: testModel}, log)
	require.NoError(t, err)

	gens := &mocks.MockGenerationStore{}
	errLog := &mocks.MockGenerationErrorStore{}
	svc, err := generation.NewService(gens, errLog, gen, log, generation.Config{Model: testModel, Timeout: 5 * time.Second})
	require.NoError(t, err)

	input := strings.Repeat("x", 1500)
	res, err := svc.InitiateGeneration(context.Background(), uuid.New(), input)
	require.NoError(t, err)

	assert.Equal(t, generation.FlashcardsSchemaName, gotFormat)
	assert.Len(t, res.Flashcards, 3)
	assert.Equal(t, 1500, res.Generation.SourceTextLength)
	assert.Positive(t, res.Generation.GenerationDuration)
	assert.Empty(t, errLog.Errors())
}

// TestInitiateGenerationDeadlineCutsRetries checks that the generation
// deadline wins over a client still backing off between retries.
func TestInitiateGenerationDeadlineCutsRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	log, _ := logger.NewBufferLogger()
	client, err := openrouter.NewClient(log, config.LLMConfig{
		APIKey:         "sk-or-test",
		Endpoint:       srv.URL,
		RequestTimeout: time.Second,
		MaxRetries:     3,
		RetryBaseDelay: 150 * time.Millisecond,
		RetryMaxDelay:  time.Second,
	})
	require.NoError(t, err)
	gen, err := generation.NewOpenRouterGenerator(client, openrouter.ModelConfig{Name: testModel}, log)
	require.NoError(t, err)

	gens := &mocks.MockGenerationStore{}
	errLog := &mocks.MockGenerationErrorStore{}
	svc, err := generation.NewService(gens, errLog, gen, log, generation.Config{Model: testModel, Timeout: 200 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = svc.InitiateGeneration(context.Background(), uuid.New(), "text")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Equal(t, "Generation failed: AI service timeout after 200ms", err.Error())
	assert.ErrorIs(t, err, generation.ErrGenerationTimeout)
	assert.Less(t, elapsed, time.Second, "retries do not outlive the deadline")
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	assert.LessOrEqual(t, calls.Load(), int32(2), "backoff is interrupted before the third attempt")
	require.Len(t, errLog.Errors(), 1)
	assert.Equal(t, "AI service timeout after 200ms", errLog.Errors()[0].ErrorMessage)
}
