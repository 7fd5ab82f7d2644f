package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/api/shared"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/generation"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/redact"
	"github.com/phrazzld/scry-cards/internal/service"
)

// maxRequestBodyBytes bounds JSON request bodies.
const maxRequestBodyBytes = 1 << 20

// GenerationInitiator starts a flashcard generation for a user.
type GenerationInitiator interface {
	InitiateGeneration(ctx context.Context, userID uuid.UUID, inputText string) (*generation.Result, error)
}

// GenerationHandler handles generation-related HTTP requests
type GenerationHandler struct {
	initiator GenerationInitiator
	history   service.GenerationHistoryService
	logger    *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(
	initiator GenerationInitiator,
	history service.GenerationHistoryService,
	logger *slog.Logger,
) *GenerationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerationHandler")
	}

	return &GenerationHandler{
		initiator: initiator,
		history:   history,
		logger:    logger.With(slog.String("component", "generation_handler")),
	}
}

// InitiateGeneration handles POST /generations requests
// It asks the model for flashcard proposals for the submitted text.
func (h *GenerationHandler) InitiateGeneration(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if res := shared.ValidateRequest(&req); !res.Valid {
		shared.RespondWithValidationErrors(w, r, res)
		return
	}

	result, err := h.initiator.InitiateGeneration(r.Context(), userID, req.InputText)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate flashcards")
		return
	}

	log.Debug("generation initiated",
		slog.Int64("generation_id", result.Generation.ID),
		slog.Int("proposals", len(result.Flashcards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, GenerationResponse{
		Message:    "Generation initiated",
		Generation: result.Generation,
		Flashcards: result.Flashcards,
	})
}

// ListGenerations handles GET /generations requests
func (h *GenerationHandler) ListGenerations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	page, res := parsePage(r)
	if !res.Valid {
		shared.RespondWithValidationErrors(w, r, res)
		return
	}

	out, err := h.history.ListGenerations(r.Context(), userID, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list generations")
		return
	}

	gens := out.Generations
	if gens == nil {
		gens = []*domain.Generation{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GenerationListResponse{
		Generations: gens,
		Pagination:  out.Pagination,
	})
}

// GetGenerationErrors handles GET /generations/{id}/errors requests
func (h *GenerationHandler) GetGenerationErrors(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, generationID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	errs, err := h.history.GetGenerationErrors(r.Context(), userID, generationID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get generation errors")
		return
	}

	if errs == nil {
		errs = []*domain.GenerationError{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GenerationErrorsResponse{
		GenerationID: generationID,
		Errors:       errs,
	})
}
