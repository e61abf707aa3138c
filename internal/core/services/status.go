package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// StatusService reads persisted run state without contacting any remote.
type StatusService struct {
	states       driven.RunStateStore
	fingerprints driven.FingerprintStore
	history      driven.RunHistoryStore
}

// NewStatusService creates a status service. history may be nil.
func NewStatusService(
	states driven.RunStateStore,
	fingerprints driven.FingerprintStore,
	history driven.RunHistoryStore,
) *StatusService {
	return &StatusService{
		states:       states,
		fingerprints: fingerprints,
		history:      history,
	}
}

// Status returns the persisted RunState, snapshot size and recent runs.
func (s *StatusService) Status(ctx context.Context, historyLimit int) (*driving.Status, error) {
	state, err := s.states.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load run state: %w", err)
	}

	snapshot, err := s.fingerprints.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fingerprints: %w", err)
	}

	status := &driving.Status{
		State:        state,
		SnapshotSize: len(snapshot),
	}

	if s.history != nil && historyLimit > 0 {
		reports, err := s.history.List(ctx, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("list run history: %w", err)
		}
		status.History = reports
	}

	return status, nil
}
