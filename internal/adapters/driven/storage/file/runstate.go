package file

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// RunStateFile is the run-state file name inside the data directory.
const RunStateFile = "run_state.json"

// Ensure RunStateStore implements the interface.
var _ driven.RunStateStore = (*RunStateStore)(nil)

// RunStateStore persists the sync workflow record as JSON.
type RunStateStore struct {
	mu   sync.Mutex
	path string
}

// NewRunStateStore creates a store backed by run_state.json in dataDir.
func NewRunStateStore(dataDir string) *RunStateStore {
	return &RunStateStore{path: filepath.Join(dataDir, RunStateFile)}
}

// Path returns the run-state file path.
func (s *RunStateStore) Path() string {
	return s.path
}

// Load reads the run state. A missing or corrupt file yields a zero state.
func (s *RunStateStore) Load(_ context.Context) (domain.RunState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var state domain.RunState
	if _, err := readJSON(s.path, &state); err != nil {
		logger.Warn("run state: %v, starting fresh", err)
		return domain.RunState{}, nil
	}
	return state, nil
}

// Save atomically replaces the run-state file.
func (s *RunStateStore) Save(_ context.Context, state domain.RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path, state)
}
