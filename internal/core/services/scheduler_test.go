package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

// mockPipeline implements driving.Pipeline for scheduler testing.
type mockPipeline struct {
	mu      sync.Mutex
	starts  int
	runs    int
	err     error
	success bool
	block   chan struct{}
	ran     chan struct{}
}

func newMockPipeline() *mockPipeline {
	return &mockPipeline{success: true, ran: make(chan struct{}, 100)}
}

func (m *mockPipeline) Run(_ context.Context, _ driving.RunOptions) (*domain.RunReport, error) {
	m.mu.Lock()
	m.starts++
	m.mu.Unlock()
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	m.runs++
	m.mu.Unlock()
	m.ran <- struct{}{}
	if m.err != nil {
		return nil, m.err
	}
	return &domain.RunReport{RunID: "run", Success: m.success, Error: "partial"}, nil
}

func (m *mockPipeline) started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

func (m *mockPipeline) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}

var _ driving.Pipeline = (*mockPipeline)(nil)

func waitRun(t *testing.T, p *mockPipeline) {
	t.Helper()
	select {
	case <-p.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not run")
	}
}

// ==================== Scheduler Tests ====================

func TestNewScheduler(t *testing.T) {
	config := domain.SchedulerConfig{Interval: time.Hour, HistorySize: 10}
	scheduler := NewScheduler(config, newMockPipeline(), &memHistory{})

	require.NotNil(t, scheduler)
	assert.Equal(t, config, scheduler.config)
	assert.False(t, scheduler.running)
}

func TestScheduler_RunsImmediately(t *testing.T) {
	pipeline := newMockPipeline()
	history := &memHistory{}
	scheduler := NewScheduler(domain.SchedulerConfig{Interval: time.Hour, HistorySize: 7}, pipeline, history)

	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Start(context.Background()) }()

	waitRun(t, pipeline)
	require.NoError(t, scheduler.Stop())
	require.NoError(t, <-errCh)

	assert.Equal(t, 1, pipeline.count())
	history.mu.Lock()
	assert.Equal(t, 7, history.pruneKeep)
	history.mu.Unlock()
}

func TestScheduler_RunsOnInterval(t *testing.T) {
	pipeline := newMockPipeline()
	scheduler := NewScheduler(domain.SchedulerConfig{Interval: 10 * time.Millisecond}, pipeline, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Start(ctx) }()

	waitRun(t, pipeline)
	waitRun(t, pipeline)
	waitRun(t, pipeline)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	assert.GreaterOrEqual(t, pipeline.count(), 3)
}

func TestScheduler_DropsTicksWhileBusy(t *testing.T) {
	pipeline := newMockPipeline()
	pipeline.block = make(chan struct{})
	scheduler := NewScheduler(domain.SchedulerConfig{Interval: 5 * time.Millisecond}, pipeline, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Start(context.Background()) }()

	require.Eventually(t, scheduler.IsBusy, 5*time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	// Ticks that arrived during the blocked run were dropped, not queued.
	assert.Equal(t, 1, pipeline.started())

	close(pipeline.block)
	waitRun(t, pipeline)
	require.NoError(t, scheduler.Stop())
	require.NoError(t, <-errCh)
}

func TestScheduler_RunErrorsDoNotStopLoop(t *testing.T) {
	pipeline := newMockPipeline()
	pipeline.err = errMock
	scheduler := NewScheduler(domain.SchedulerConfig{Interval: 10 * time.Millisecond}, pipeline, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Start(context.Background()) }()

	waitRun(t, pipeline)
	waitRun(t, pipeline)
	require.NoError(t, scheduler.Stop())
	require.NoError(t, <-errCh)
}

func TestScheduler_PartialSuccessLogged(t *testing.T) {
	pipeline := newMockPipeline()
	pipeline.success = false
	scheduler := NewScheduler(domain.SchedulerConfig{Interval: time.Hour}, pipeline, &memHistory{})

	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Start(context.Background()) }()

	waitRun(t, pipeline)
	require.NoError(t, scheduler.Stop())
	require.NoError(t, <-errCh)
}

func TestScheduler_InvalidInterval(t *testing.T) {
	scheduler := NewScheduler(domain.SchedulerConfig{}, newMockPipeline(), nil)
	err := scheduler.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScheduler_StopWhenNotRunning(t *testing.T) {
	scheduler := NewScheduler(domain.SchedulerConfig{Interval: time.Hour}, newMockPipeline(), nil)
	assert.NoError(t, scheduler.Stop())
}

func TestScheduler_StartTwice(t *testing.T) {
	pipeline := newMockPipeline()
	scheduler := NewScheduler(domain.SchedulerConfig{Interval: time.Hour}, pipeline, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Start(context.Background()) }()
	waitRun(t, pipeline)

	assert.NoError(t, scheduler.Start(context.Background()), "second start is a no-op")

	require.NoError(t, scheduler.Stop())
	require.NoError(t, <-errCh)
}
