package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
)

// Ensure FingerprintStore implements the interface.
var _ driven.FingerprintStore = (*FingerprintStore)(nil)

// FingerprintStore is an in-memory implementation of driven.FingerprintStore.
type FingerprintStore struct {
	mu       sync.RWMutex
	snapshot domain.FingerprintSnapshot
}

// NewFingerprintStore creates a new in-memory fingerprint store.
func NewFingerprintStore() *FingerprintStore {
	return &FingerprintStore{
		snapshot: domain.NewFingerprintSnapshot(),
	}
}

// Load returns a copy of the current snapshot.
func (s *FingerprintStore) Load(_ context.Context) (domain.FingerprintSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone(), nil
}

// Save replaces the current snapshot with a copy of snapshot.
func (s *FingerprintStore) Save(_ context.Context, snapshot domain.FingerprintSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot.Clone()
	return nil
}
