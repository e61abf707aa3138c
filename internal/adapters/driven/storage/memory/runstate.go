package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
)

// Ensure RunStateStore implements the interface.
var _ driven.RunStateStore = (*RunStateStore)(nil)

// RunStateStore is an in-memory implementation of driven.RunStateStore.
type RunStateStore struct {
	mu    sync.RWMutex
	state domain.RunState
}

// NewRunStateStore creates a new in-memory run state store.
func NewRunStateStore() *RunStateStore {
	return &RunStateStore{}
}

// Load returns the stored state, zero if nothing was saved.
func (s *RunStateStore) Load(_ context.Context) (domain.RunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state), nil
}

// Save replaces the stored state.
func (s *RunStateStore) Save(_ context.Context, state domain.RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = copyState(state)
	return nil
}

func copyState(state domain.RunState) domain.RunState {
	if state.PendingFiles != nil {
		state.PendingFiles = append([]domain.PendingFile(nil), state.PendingFiles...)
	}
	return state
}
