package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-cards/internal/domain"
	"github.com/phrazzld/scry-cards/internal/store"
)

// MockGenerationStore implements store.GenerationStore for testing.
// Create assigns sequential IDs unless CreateFn is set.
type MockGenerationStore struct {
	CreateFn         func(ctx context.Context, g *domain.Generation) error
	UpdateDurationFn func(ctx context.Context, id int64, durationMS int64) error
	GetByIDFn        func(ctx context.Context, id int64, userID uuid.UUID) (*domain.Generation, error)
	ListByUserFn     func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Generation, int, error)

	mu        sync.Mutex
	nextID    int64
	Created   []*domain.Generation
	Durations map[int64]int64
}

var _ store.GenerationStore = (*MockGenerationStore)(nil)

// Create implements store.GenerationStore
func (m *MockGenerationStore) Create(ctx context.Context, g *domain.Generation) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, g); err != nil {
			return err
		}
	} else {
		m.mu.Lock()
		m.nextID++
		g.ID = m.nextID
		m.mu.Unlock()
	}

	m.mu.Lock()
	m.Created = append(m.Created, g)
	m.mu.Unlock()
	return nil
}

// UpdateDuration implements store.GenerationStore
func (m *MockGenerationStore) UpdateDuration(ctx context.Context, id int64, durationMS int64) error {
	if m.UpdateDurationFn != nil {
		if err := m.UpdateDurationFn(ctx, id, durationMS); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Durations == nil {
		m.Durations = make(map[int64]int64)
	}
	m.Durations[id] = durationMS
	return nil
}

// GetByID implements store.GenerationStore
func (m *MockGenerationStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Generation, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.Created {
		if g.ID == id && g.UserID == userID {
			return g, nil
		}
	}
	return nil, store.ErrGenerationNotFound
}

// ListByUser implements store.GenerationStore
func (m *MockGenerationStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Generation, int, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit, offset)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var owned []*domain.Generation
	for i := len(m.Created) - 1; i >= 0; i-- {
		if m.Created[i].UserID == userID {
			owned = append(owned, m.Created[i])
		}
	}
	total := len(owned)
	if offset >= total {
		return []*domain.Generation{}, total, nil
	}
	end := min(offset+limit, total)
	return owned[offset:end], total, nil
}

// WithTx implements store.GenerationStore. The mock ignores transactions.
func (m *MockGenerationStore) WithTx(_ *sql.Tx) store.GenerationStore {
	return m
}

// Duration returns the last duration recorded for id.
func (m *MockGenerationStore) Duration(id int64) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Durations[id]
	return d, ok
}

// MockGenerationErrorStore implements store.GenerationErrorStore for testing.
type MockGenerationErrorStore struct {
	CreateFn           func(ctx context.Context, ge *domain.GenerationError) error
	ListByGenerationFn func(ctx context.Context, generationID int64) ([]*domain.GenerationError, error)

	mu      sync.Mutex
	Created []*domain.GenerationError
	// Contexts records the context of every Create call.
	Contexts []context.Context
}

var _ store.GenerationErrorStore = (*MockGenerationErrorStore)(nil)

// Create implements store.GenerationErrorStore. The row is recorded even
// when CreateFn fails so tests can inspect what was attempted.
func (m *MockGenerationErrorStore) Create(ctx context.Context, ge *domain.GenerationError) error {
	m.mu.Lock()
	m.Created = append(m.Created, ge)
	m.Contexts = append(m.Contexts, ctx)
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, ge)
	}
	return nil
}

// ListByGeneration implements store.GenerationErrorStore
func (m *MockGenerationErrorStore) ListByGeneration(ctx context.Context, generationID int64) ([]*domain.GenerationError, error) {
	if m.ListByGenerationFn != nil {
		return m.ListByGenerationFn(ctx, generationID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.GenerationError{}
	for _, ge := range m.Created {
		if ge.GenerationID == generationID {
			out = append(out, ge)
		}
	}
	return out, nil
}

// Errors returns a copy of the recorded rows.
func (m *MockGenerationErrorStore) Errors() []*domain.GenerationError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.GenerationError(nil), m.Created...)
}
