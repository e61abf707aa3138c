package main

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/helpsync/internal/adapters/driven/openai"
	"github.com/custodia-labs/helpsync/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/helpsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/helpsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/helpsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/helpsync/internal/connectors/zendesk"
	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
	"github.com/custodia-labs/helpsync/internal/core/services"
	"github.com/custodia-labs/helpsync/internal/logger"
	"github.com/custodia-labs/helpsync/internal/normalisers/html"
)

// stores groups the persistence ports chosen by state.backend.
type stores struct {
	fingerprints driven.FingerprintStore
	states       driven.RunStateStore
	history      driven.RunHistoryStore
	close        func() error
}

// openStores opens the configured backend. Run history lives in SQLite
// for both persistent backends; the backend selects where the snapshot and
// run state are kept. The memory backend keeps nothing across processes.
func openStores(cfg domain.StateConfig) (*stores, error) {
	if cfg.Backend == "memory" {
		return &stores{
			fingerprints: memory.NewFingerprintStore(),
			states:       memory.NewRunStateStore(),
			history:      memory.NewRunHistoryStore(),
			close:        func() error { return nil },
		}, nil
	}

	db, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &stores{
		history: db.RunHistoryStore(),
		close:   db.Close,
	}
	switch cfg.Backend {
	case "sqlite":
		s.fingerprints = db.FingerprintStore()
		s.states = db.RunStateStore()
	default:
		s.fingerprints = file.NewFingerprintStore(cfg.DataDir)
		s.states = file.NewRunStateStore(cfg.DataDir)
	}
	return s, nil
}

// newApp wires adapters and services for one CLI invocation.
func newApp(cfg domain.Config) (*cli.App, error) {
	source, err := zendesk.New(cfg.Zendesk)
	if err != nil {
		return nil, fmt.Errorf("zendesk: %w", err)
	}

	st, err := openStores(cfg.State)
	if err != nil {
		return nil, err
	}

	// A nil driver keeps the pipeline detection-only until a key is set.
	var driver driving.SyncDriver
	if cfg.OpenAI.APIKey != "" {
		client, err := openai.NewClient(cfg.OpenAI, cfg.Sync.RequestDelay)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("openai: %w", err), st.close())
		}
		driver = services.NewSyncDriver(cfg.Sync, cfg.OpenAI, client, client, client, st.states)
	} else {
		logger.Debug("app: no OpenAI API key, remote sync disabled")
	}

	pipeline := services.NewPipeline(
		cfg.Sync,
		source,
		services.NewDeltaDetector(html.New()),
		st.fingerprints,
		driver,
		file.NewArchive(cfg.State.ArchiveDir),
		st.history,
	)

	return &cli.App{
		Config:   cfg,
		Pipeline: pipeline,
		Status:   services.NewStatusService(st.states, st.fingerprints, st.history),
		NewScheduler: func(sc domain.SchedulerConfig) driving.Scheduler {
			return services.NewScheduler(sc, pipeline, st.history)
		},
		Close: st.close,
	}, nil
}
