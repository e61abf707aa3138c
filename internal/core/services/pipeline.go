package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline runs one fetch, detect and sync cycle.
// Runs are serialised; a second concurrent Run fails with ErrSyncInProgress.
type Pipeline struct {
	cfg          domain.SyncConfig
	source       driven.ArticleSource
	detector     driving.DeltaDetector
	fingerprints driven.FingerprintStore
	driver       driving.SyncDriver
	archive      driven.ArticleArchive
	history      driven.RunHistoryStore

	mu      sync.Mutex
	running bool
	now     func() time.Time
}

// NewPipeline creates a pipeline.
// The archive and history stores are optional and may be nil. A nil driver
// gives a detection-only pipeline that accepts dry runs only.
func NewPipeline(
	cfg domain.SyncConfig,
	source driven.ArticleSource,
	detector driving.DeltaDetector,
	fingerprints driven.FingerprintStore,
	driver driving.SyncDriver,
	archive driven.ArticleArchive,
	history driven.RunHistoryStore,
) *Pipeline {
	return &Pipeline{
		cfg:          cfg,
		source:       source,
		detector:     detector,
		fingerprints: fingerprints,
		driver:       driver,
		archive:      archive,
		history:      history,
		now:          time.Now,
	}
}

// Run executes one run. Source failures are returned as errors; a partially
// successful sync is reported through RunReport.Success.
func (p *Pipeline) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	if p.driver == nil && !opts.DryRun {
		return nil, fmt.Errorf("%w: remote sync is not configured", domain.ErrMissingCredential)
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, domain.ErrSyncInProgress
	}
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	report := &domain.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: p.now().UTC(),
		DryRun:    opts.DryRun,
	}
	logger.Info("pipeline: run %s started (dry-run=%t)", report.RunID, opts.DryRun)

	// 1. Fetch
	logger.Section("Fetch")
	articles, err := p.source.FetchArticles(ctx)
	if err != nil {
		err = fmt.Errorf("fetch articles: %w", err)
		report.Error = err.Error()
		p.finish(ctx, report)
		return report, err
	}
	report.Fetched = len(articles)

	// 2. Detect
	logger.Section("Detect")
	prior, err := p.fingerprints.Load(ctx)
	if err != nil {
		logger.Warn("pipeline: failed to load fingerprints, treating all articles as new: %v", err)
		prior = domain.NewFingerprintSnapshot()
	}

	limit := opts.Limit
	if limit == 0 {
		limit = p.cfg.Limit
	}
	changes, next := p.detector.Detect(articles, prior, limit)
	report.Changes = changes
	report.Added = len(changes.New)
	report.Updated = len(changes.Updated)
	report.Skipped = len(changes.Unchanged)

	if opts.DryRun {
		report.Success = true
		report.FinishedAt = p.now().UTC()
		logger.Info("pipeline: dry run, %d new, %d updated, %d unchanged", report.Added, report.Updated, report.Skipped)
		return report, nil
	}

	// 3. Archive
	changed := changes.Changed()
	p.archiveAll(ctx, changed)

	// 4. Sync
	logger.Section("Sync")
	result := p.driver.Sync(ctx, changed)
	report.FilesUploaded = result.UploadedCount()
	report.UploadErrors = result.FailedCount()
	report.AgentID = result.AgentID
	report.IndexID = result.IndexID
	report.Success = result.Success
	if !result.Success {
		report.Error = syncError(result)
	}

	// 5. Persist snapshot
	restoreFailed(next, prior, result.Uploads)
	if err := p.fingerprints.Save(ctx, next); err != nil {
		logger.Error("pipeline: failed to save fingerprints: %v", err)
	}

	p.finish(ctx, report)
	return report, nil
}

// archiveAll writes local copies of the changed articles.
func (p *Pipeline) archiveAll(ctx context.Context, changed []domain.NormalisedArticle) {
	if p.archive == nil {
		return
	}
	for i := range changed {
		if err := p.archive.Write(ctx, changed[i]); err != nil {
			logger.Warn("pipeline: failed to archive %s: %v", changed[i].Filename(), err)
		}
	}
}

// finish stamps the report and records it in the run history.
func (p *Pipeline) finish(ctx context.Context, report *domain.RunReport) {
	report.FinishedAt = p.now().UTC()
	logger.Info("pipeline: run %s finished in %s (success=%t)", report.RunID, report.Duration(), report.Success)
	if p.history == nil || report.DryRun {
		return
	}
	if err := p.history.Record(ctx, *report); err != nil {
		logger.Warn("pipeline: failed to record run history: %v", err)
	}
}

// restoreFailed reverts snapshot records for articles whose upload failed,
// so the next run detects them again.
func restoreFailed(next, prior domain.FingerprintSnapshot, uploads []domain.UploadOutcome) {
	for _, u := range uploads {
		if u.OK() {
			continue
		}
		if rec, ok := prior.Lookup(u.ArticleID); ok {
			next[u.ArticleID] = rec
		} else {
			delete(next, u.ArticleID)
		}
	}
}

// syncError summarises the first failed stage of a sync.
func syncError(result domain.SyncResult) string {
	stages := []struct {
		name    string
		outcome domain.StageOutcome
	}{
		{"upload", result.Upload},
		{"index", result.IndexResolve},
		{"attach", result.IndexAttach},
		{"agent", result.AgentResolve},
		{"bind", result.AgentBind},
	}
	for _, s := range stages {
		if s.outcome.Err != nil {
			return fmt.Sprintf("%s: %v", s.name, s.outcome.Err)
		}
	}
	return "sync incomplete"
}
