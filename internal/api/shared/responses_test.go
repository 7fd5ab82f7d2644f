package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/scry-cards/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithLogger(t *testing.T) (*http.Request, *logger.LogBuffer) {
	t.Helper()
	log, buf := logger.NewBufferLogger()
	ctx := WithTraceID(context.Background(), "test-trace-id")
	ctx = logger.WithLogger(ctx, log)
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
	return req, buf
}

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]any{"message": "success", "data": 123})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"success","data":123}`, w.Body.String())
}

func TestRespondWithJSONNil(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	RespondWithJSON(w, req, http.StatusOK, nil)
	assert.Equal(t, "null\n", w.Body.String())
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	req, buf := requestWithLogger(t)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]any{"ch": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, buf.HasMessage(slog.LevelError, "failed to encode JSON response"))
}

func TestRespondWithError(t *testing.T) {
	req, _ := requestWithLogger(t)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid request")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Invalid request", response.Error)
	assert.Equal(t, "test-trace-id", response.TraceID)
	assert.Empty(t, response.Details)
}

func TestRespondWithErrorNoTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusUnauthorized, "Unauthorized")

	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestRespondWithValidationErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithValidationErrors(w, req, ValidationResult{Errors: []FieldError{
		{Field: "input_text", Message: "must be at least 1000 characters"},
	}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t,
		`{"error":"Validation failed","details":[{"field":"input_text","message":"must be at least 1000 characters"}]}`,
		w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		elevate       bool
		expectedLevel slog.Level
	}{
		{"server error", http.StatusInternalServerError, false, slog.LevelError},
		{"client error", http.StatusBadRequest, false, slog.LevelDebug},
		{"client error elevated", http.StatusUnauthorized, true, slog.LevelWarn},
		{"rate limited", http.StatusTooManyRequests, false, slog.LevelWarn},
		{"redirect", http.StatusMovedPermanently, true, slog.LevelDebug},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, buf := requestWithLogger(t)
			w := httptest.NewRecorder()

			var opts []ResponseOption
			if tc.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, req, tc.statusCode, "safe message", errors.New("boom"), opts...)

			assert.Equal(t, tc.statusCode, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "safe message", response.Error)
			assert.Equal(t, "test-trace-id", response.TraceID)
			assert.True(t, buf.HasMessage(tc.expectedLevel, "API error response"), buf.String())
			assert.Contains(t, buf.String(), `"error_type":"*errors.errorString"`)
		})
	}
}

func TestRespondWithErrorAndLogRedacts(t *testing.T) {
	req, buf := requestWithLogger(t)
	w := httptest.NewRecorder()

	err := errors.New("connect failed: postgres://scry:hunter2secret@db:5432/scry")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "Internal server error", err)

	assert.NotContains(t, buf.String(), "hunter2secret")
	assert.NotContains(t, w.Body.String(), "postgres://")
}
