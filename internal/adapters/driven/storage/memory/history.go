package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
)

// Ensure RunHistoryStore implements the interface.
var _ driven.RunHistoryStore = (*RunHistoryStore)(nil)

// RunHistoryStore is an in-memory implementation of driven.RunHistoryStore.
type RunHistoryStore struct {
	mu      sync.RWMutex
	reports []domain.RunReport
}

// NewRunHistoryStore creates a new in-memory run history store.
func NewRunHistoryStore() *RunHistoryStore {
	return &RunHistoryStore{}
}

// Record appends a report. The change set is not retained.
func (s *RunHistoryStore) Record(_ context.Context, report domain.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	report.Changes = domain.ChangeSet{}
	s.reports = append(s.reports, report)
	return nil
}

// List returns up to limit reports, newest first.
// A non-positive limit returns every report.
func (s *RunHistoryStore) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.reports)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.RunReport, 0, n)
	for i := len(s.reports) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.reports[i])
	}
	return out, nil
}

// Prune keeps only the most recent keep reports.
func (s *RunHistoryStore) Prune(_ context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reports) > keep {
		s.reports = append([]domain.RunReport(nil), s.reports[len(s.reports)-keep:]...)
	}
	return nil
}
