package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/api"
	"github.com/phrazzld/scry-cards/internal/api/middleware"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/mocks"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/phrazzld/scry-cards/internal/service"
	"github.com/phrazzld/scry-cards/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlashcardRouter(t *testing.T, svc *mocks.MockFlashcardService, userID uuid.UUID) http.Handler {
	t.Helper()
	log, _ := logger.NewBufferLogger()
	h := api.NewFlashcardHandler(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.NewAuthMiddleware(mocks.NewMockJWTServiceForUser(userID)).Authenticate)
	r.Post("/api/flashcards", h.CreateFlashcards)
	r.Get("/api/flashcards", h.ListFlashcards)
	r.Delete("/api/flashcards/{id}", h.DeleteFlashcard)
	return r
}

func doAuthed(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateFlashcardsHandlerSuccess(t *testing.T) {
	userID := uuid.New()
	var gotInputs []service.FlashcardInput
	svc := &mocks.MockFlashcardService{
		CreateFlashcardsFn: func(_ context.Context, uid uuid.UUID, inputs []service.FlashcardInput) ([]*domain.Flashcard, error) {
			assert.Equal(t, userID, uid)
			gotInputs = inputs
			out := make([]*domain.Flashcard, len(inputs))
			for i, in := range inputs {
				out[i] = &domain.Flashcard{ID: int64(i + 10), UserID: uid, Front: in.Front, Back: in.Back, Source: in.Source, GenerationID: in.GenerationID}
			}
			return out, nil
		},
	}
	router := newFlashcardRouter(t, svc, userID)

	body := `{"flashcards":[
		{"front":"Q1","back":"A1","source":"manual"},
		{"front":"Q2","back":"A2","source":"ai-edited","generation_id":7}
	]}`
	rec := doAuthed(router, http.MethodPost, "/api/flashcards", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, gotInputs, 2)
	assert.Equal(t, domain.SourceManual, gotInputs[0].Source)
	assert.Nil(t, gotInputs[0].GenerationID)
	assert.Equal(t, domain.SourceAIEdited, gotInputs[1].Source)
	require.NotNil(t, gotInputs[1].GenerationID)
	assert.Equal(t, int64(7), *gotInputs[1].GenerationID)

	var resp struct {
		Message    string             `json:"message"`
		Flashcards []domain.Flashcard `json:"flashcards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Flashcards saved successfully", resp.Message)
	require.Len(t, resp.Flashcards, 2)
	assert.Equal(t, int64(11), resp.Flashcards[1].ID)
}

func flashcardsBody(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"front":"Q%d","back":"A","source":"manual"}`, i)
	}
	return `{"flashcards":[` + strings.Join(items, ",") + `]}`
}

func TestCreateFlashcardsHandlerValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{"empty list", `{"flashcards":[]}`, "flashcards", "must contain at least 1 items"},
		{"missing list", `{}`, "flashcards", "is required"},
		{"too many", flashcardsBody(31), "flashcards", "must contain at most 30 items"},
		{"front too long", `{"flashcards":[{"front":"` + strings.Repeat("x", 201) + `","back":"a","source":"manual"}]}`, "flashcards[0].front", "must be at most 200 characters"},
		{"back too long", `{"flashcards":[{"front":"q","back":"` + strings.Repeat("x", 501) + `","source":"manual"}]}`, "flashcards[0].back", "must be at most 500 characters"},
		{"bad source", `{"flashcards":[{"front":"q","back":"a","source":"imported"}]}`, "flashcards[0].source", "must be one of: manual, ai-full, ai-edited"},
		{"bad generation id", `{"flashcards":[{"front":"q","back":"a","source":"ai-full","generation_id":0}]}`, "flashcards[0].generation_id", "must be greater than 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			svc := &mocks.MockFlashcardService{
				CreateFlashcardsFn: func(context.Context, uuid.UUID, []service.FlashcardInput) ([]*domain.Flashcard, error) {
					called = true
					return nil, nil
				},
			}
			rec := doAuthed(newFlashcardRouter(t, svc, uuid.New()), http.MethodPost, "/api/flashcards", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			body := decodeError(t, rec)
			assert.Equal(t, "Validation failed", body.Error)
			require.Len(t, body.Details, 1)
			assert.Equal(t, tc.field, body.Details[0].Field)
			assert.Equal(t, tc.message, body.Details[0].Message)
			assert.False(t, called)
		})
	}
}

func TestCreateFlashcardsHandlerServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "foreign generation",
			err:        fmt.Errorf("generation 9: %w", service.ErrGenerationNotOwned),
			wantStatus: http.StatusBadRequest,
			wantError:  "generation 9: generation not found or does not belong to the user",
		},
		{
			name:       "domain validation",
			err:        fmt.Errorf("%w: flashcard 0: %w", domain.ErrValidation, domain.ErrFlashcardGenerationMissing),
			wantStatus: http.StatusBadRequest,
			wantError:  "validation failed: flashcard 0: generation ID is required for AI-generated flashcards",
		},
		{
			name:       "unexpected",
			err:        service.NewServiceError("flashcard", "create", errors.New("tx aborted")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to save flashcards",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockFlashcardService{
				CreateFlashcardsFn: func(context.Context, uuid.UUID, []service.FlashcardInput) ([]*domain.Flashcard, error) {
					return nil, tc.err
				},
			}
			rec := doAuthed(newFlashcardRouter(t, svc, uuid.New()), http.MethodPost, "/api/flashcards", flashcardsBody(1))
			require.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantError, decodeError(t, rec).Error)
		})
	}
}

func TestListFlashcardsHandler(t *testing.T) {
	userID := uuid.New()
	genID := int64(3)
	svc := &mocks.MockFlashcardService{
		ListFlashcardsFn: func(_ context.Context, _ uuid.UUID, p service.ListFlashcardsParams) (*service.FlashcardPage, error) {
			return &service.FlashcardPage{
				Flashcards: []*domain.Flashcard{{ID: 5, UserID: userID, Front: "Q", Back: "A", Source: domain.SourceAIFull, GenerationID: &genID}},
				Pagination: service.Pagination{Page: p.Page.Page, Limit: p.Page.Limit, Total: 21},
			}, nil
		},
	}
	router := newFlashcardRouter(t, svc, userID)

	rec := doAuthed(router, http.MethodGet, "/api/flashcards?page=3&limit=10&is_deleted=false&search=chem", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NotNil(t, svc.LastListParams)
	assert.Equal(t, service.Page{Page: 3, Limit: 10}, svc.LastListParams.Page)
	require.NotNil(t, svc.LastListParams.IsDeleted)
	assert.False(t, *svc.LastListParams.IsDeleted)
	assert.Equal(t, "chem", svc.LastListParams.Search)

	var resp struct {
		Flashcards []domain.Flashcard `json:"flashcards"`
		Pagination service.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Flashcards, 1)
	assert.Equal(t, int64(5), resp.Flashcards[0].ID)
	assert.Equal(t, service.Pagination{Page: 3, Limit: 10, Total: 21}, resp.Pagination)
}

func TestListFlashcardsHandlerDefaults(t *testing.T) {
	svc := &mocks.MockFlashcardService{}
	rec := doAuthed(newFlashcardRouter(t, svc, uuid.New()), http.MethodGet, "/api/flashcards", "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.LastListParams)
	assert.Equal(t, service.Page{Page: 1, Limit: service.DefaultPageSize}, svc.LastListParams.Page)
	assert.Nil(t, svc.LastListParams.IsDeleted, "no filter unless requested")
	assert.JSONEq(t, `{"flashcards":[],"pagination":{"page":0,"limit":0,"total":0}}`, rec.Body.String())
}

func TestListFlashcardsHandlerRejectsBadQuery(t *testing.T) {
	svc := &mocks.MockFlashcardService{}
	rec := doAuthed(newFlashcardRouter(t, svc, uuid.New()), http.MethodGet, "/api/flashcards?is_deleted=maybe&limit=500", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	require.Len(t, body.Details, 2)
	fields := []string{body.Details[0].Field, body.Details[1].Field}
	assert.ElementsMatch(t, []string{"limit", "is_deleted"}, fields)
	assert.Nil(t, svc.LastListParams)
}

func TestDeleteFlashcardHandler(t *testing.T) {
	userID := uuid.New()
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"deleted", "/api/flashcards/12", nil, http.StatusOK, `{"message":"Flashcard deleted successfully"}`},
		{"not found", "/api/flashcards/12", store.ErrFlashcardNotFound, http.StatusNotFound, `{"error":"Flashcard not found"}`},
		{"already deleted", "/api/flashcards/12", store.ErrFlashcardAlreadyDeleted, http.StatusConflict, `{"error":"Flashcard already deleted"}`},
		{"bad id", "/api/flashcards/abc", nil, http.StatusBadRequest, `{"error":"Invalid ID"}`},
		{"negative id", "/api/flashcards/-4", nil, http.StatusBadRequest, `{"error":"Invalid ID"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotID int64
			svc := &mocks.MockFlashcardService{
				DeleteFlashcardFn: func(_ context.Context, uid uuid.UUID, id int64) error {
					assert.Equal(t, userID, uid)
					gotID = id
					return tc.err
				},
			}
			rec := doAuthed(newFlashcardRouter(t, svc, userID), http.MethodDelete, tc.path, "")
			require.Equal(t, tc.wantStatus, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
			if tc.wantStatus != http.StatusBadRequest {
				assert.Equal(t, int64(12), gotID)
			}
		})
	}
}
