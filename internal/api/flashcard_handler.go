package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-cards/internal/api/shared"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/redact"
	"github.com/phrazzld/scry-cards/internal/service"
)

// FlashcardHandler handles flashcard-related HTTP requests
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	logger           *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler
func NewFlashcardHandler(flashcardService service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FlashcardHandler")
	}

	return &FlashcardHandler{
		flashcardService: flashcardService,
		logger:           logger.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateFlashcards handles POST /flashcards requests
// It saves manual cards and accepted proposals in one batch.
func (h *FlashcardHandler) CreateFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	var req CreateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if res := shared.ValidateRequest(&req); !res.Valid {
		shared.RespondWithValidationErrors(w, r, res)
		return
	}

	cards, err := h.flashcardService.CreateFlashcards(r.Context(), userID, toFlashcardInputs(req.Flashcards))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save flashcards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, FlashcardsResponse{
		Message:    "Flashcards saved successfully",
		Flashcards: cards,
	})
}

// ListFlashcards handles GET /flashcards requests
// Query parameters: page, limit, is_deleted, search.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	page, res := parsePage(r)
	isDeleted, ferr := parseOptionalBool(r, "is_deleted")
	if ferr != nil {
		res.Valid = false
		res.Errors = append(res.Errors, *ferr)
	}
	if !res.Valid {
		shared.RespondWithValidationErrors(w, r, res)
		return
	}

	out, err := h.flashcardService.ListFlashcards(r.Context(), userID, service.ListFlashcardsParams{
		Page:      page,
		IsDeleted: isDeleted,
		Search:    r.URL.Query().Get("search"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcards")
		return
	}

	cards := out.Flashcards
	if cards == nil {
		cards = []*domain.Flashcard{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardListResponse{
		Flashcards: cards,
		Pagination: out.Pagination,
	})
}

// DeleteFlashcard handles DELETE /flashcards/{id} requests
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.flashcardService.DeleteFlashcard(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Flashcard deleted successfully",
	})
}
