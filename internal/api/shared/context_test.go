package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	withTrace := SetTraceID(ctx)
	traceID := GetTraceID(withTrace)
	assert.Len(t, traceID, 32, "16 bytes hex encoded")
	assert.Empty(t, GetTraceID(ctx), "original context must remain unchanged")
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestGenerateTraceIDUnique(t *testing.T) {
	const iterations = 1000
	seen := make(map[string]bool, iterations)
	for i := 0; i < iterations; i++ {
		id := generateTraceID()
		_, err := hex.DecodeString(id)
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("simulated rand failure") }

func TestTraceIDFallback(t *testing.T) {
	tests := []struct {
		name   string
		reader io.Reader
	}{
		{"reader fails", failingReader{}},
		{"short read", io.LimitReader(rand.Reader, TraceIDLength/2)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := traceIDFrom(tc.reader)
			assert.Len(t, id, 32)
			_, err := hex.DecodeString(id)
			assert.NoError(t, err)
		})
	}
}

func TestFallbackTraceIDUnique(t *testing.T) {
	a := generateFallbackTraceID()
	b := generateFallbackTraceID()
	assert.NotEqual(t, a, b)
}

func TestUserIDContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok, "nil user is not authenticated")

	_, ok = UserIDFromContext(context.WithValue(context.Background(), UserIDContextKey, "not-a-uuid"))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := UserIDFromContext(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
