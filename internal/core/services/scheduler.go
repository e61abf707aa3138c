package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler runs the pipeline periodically.
// Runs never overlap: a tick that arrives while a run is in progress is dropped.
type Scheduler struct {
	config   domain.SchedulerConfig
	pipeline driving.Pipeline
	history  driven.RunHistoryStore

	mu      sync.Mutex
	running bool
	busy    bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration. history may be nil.
func NewScheduler(
	config domain.SchedulerConfig,
	pipeline driving.Pipeline,
	history driven.RunHistoryStore,
) *Scheduler {
	return &Scheduler{
		config:   config,
		pipeline: pipeline,
		history:  history,
	}
}

// Start runs the pipeline immediately and then on every interval.
// This method blocks until Stop is called or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	if s.config.Interval <= 0 {
		s.mu.Unlock()
		return domain.ErrInvalidInput
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	logger.Info("scheduler: running every %s", s.config.Interval)
	s.trigger(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler after any in-progress run.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for the running pipeline to complete
	s.wg.Wait()

	return nil
}

// trigger starts a run unless one is already in progress.
func (s *Scheduler) trigger(ctx context.Context) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		logger.Warn("scheduler: previous run still in progress, skipping tick")
		return
	}
	s.busy = true
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.busy = false
			s.mu.Unlock()
			s.wg.Done()
		}()
		s.runOnce(ctx)
	}()
}

// runOnce executes a single pipeline run and prunes old history.
func (s *Scheduler) runOnce(ctx context.Context) {
	report, err := s.pipeline.Run(ctx, driving.RunOptions{})
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		logger.Warn("scheduler: pipeline busy, run skipped")
		return
	case err != nil:
		logger.Error("scheduler: run failed: %v", err)
	case !report.Success:
		logger.Warn("scheduler: run %s finished with partial success: %s", report.RunID, report.Error)
	default:
		logger.Info("scheduler: run %s finished: %d new, %d updated", report.RunID, report.Added, report.Updated)
	}

	if s.history == nil {
		return
	}
	keep := s.config.HistorySize
	if keep <= 0 {
		keep = domain.DefaultHistorySize
	}
	if pruneErr := s.history.Prune(ctx, keep); pruneErr != nil {
		logger.Warn("scheduler: failed to prune history: %v", pruneErr)
	}
}

// IsBusy reports whether a run is currently in progress.
func (s *Scheduler) IsBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
