package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

// mockPipeline implements driving.Pipeline for testing.
type mockPipeline struct {
	report *domain.RunReport
	err    error
	opts   []driving.RunOptions
}

func (m *mockPipeline) Run(_ context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return nil, m.err
	}
	if m.report == nil {
		return &domain.RunReport{DryRun: opts.DryRun, Success: true}, nil
	}
	r := *m.report
	r.DryRun = opts.DryRun
	return &r, nil
}

// mockStatus implements driving.StatusService for testing.
type mockStatus struct {
	status *driving.Status
	err    error
	limit  int
}

func (m *mockStatus) Status(_ context.Context, historyLimit int) (*driving.Status, error) {
	m.limit = historyLimit
	if m.err != nil {
		return nil, m.err
	}
	if m.status == nil {
		return &driving.Status{}, nil
	}
	return m.status, nil
}

// mockScheduler implements driving.Scheduler for testing.
type mockScheduler struct {
	cfg     domain.SchedulerConfig
	err     error
	started bool
}

func (m *mockScheduler) Start(_ context.Context) error {
	m.started = true
	return m.err
}

func (m *mockScheduler) Stop() error { return nil }

// testApp wires mocks into the command tree.
type testApp struct {
	cfg       domain.Config
	pipeline  *mockPipeline
	status    *mockStatus
	scheduler *mockScheduler
	closed    int
	loadPath  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := domain.DefaultConfig()
	cfg.OpenAI.APIKey = "sk-test"
	ta := &testApp{
		cfg:       cfg,
		pipeline:  &mockPipeline{},
		status:    &mockStatus{},
		scheduler: &mockScheduler{},
	}

	oldLoader, oldFactory := loadConfig, newApp
	Configure(
		func(path string) (domain.Config, error) {
			ta.loadPath = path
			return ta.cfg, nil
		},
		func(cfg domain.Config) (*App, error) {
			return &App{
				Config:   cfg,
				Pipeline: ta.pipeline,
				Status:   ta.status,
				NewScheduler: func(sc domain.SchedulerConfig) driving.Scheduler {
					ta.scheduler.cfg = sc
					return ta.scheduler
				},
				Close: func() error {
					ta.closed++
					return nil
				},
			}, nil
		},
	)
	t.Cleanup(func() {
		Configure(oldLoader, oldFactory)
	})
	return ta
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := Execute(context.Background())
	return buf.String(), err
}

// resetFlags restores flag variables, which persist across executions.
func resetFlags() {
	configPath = ""
	verbose = false
	runLimit = 0
	runDryRun = false
	detectLimit = 0
	scheduleInterval = 0
	statusHistory = 10
	clearChanged(rootCmd)
}

// clearChanged resets the Changed bit of every flag in the tree.
func clearChanged(cmd *cobra.Command) {
	unset := func(f *pflag.Flag) { f.Changed = false }
	cmd.Flags().VisitAll(unset)
	cmd.PersistentFlags().VisitAll(unset)
	for _, c := range cmd.Commands() {
		clearChanged(c)
	}
}
