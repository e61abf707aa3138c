package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// Ensure SyncDriver implements the interface.
var _ driving.SyncDriver = (*SyncDriver)(nil)

// SyncDriver pushes changed articles to the remote retrieval service.
// Stages run strictly in order and each outcome is recorded in the
// SyncResult. The RunState is persisted at the end of every sync so a
// later run resumes from the point of partial completion.
type SyncDriver struct {
	cfg        domain.SyncConfig
	remote     domain.OpenAIConfig
	uploader   driven.FileUploader
	indexes    driven.VectorStoreService
	assistants driven.AssistantService
	states     driven.RunStateStore

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSyncDriver creates a sync driver.
// The remote config supplies the index name, an optional pinned index ID
// and the agent model.
func NewSyncDriver(
	cfg domain.SyncConfig,
	remote domain.OpenAIConfig,
	uploader driven.FileUploader,
	indexes driven.VectorStoreService,
	assistants driven.AssistantService,
	states driven.RunStateStore,
) *SyncDriver {
	return &SyncDriver{
		cfg:        cfg,
		remote:     remote,
		uploader:   uploader,
		indexes:    indexes,
		assistants: assistants,
		states:     states,
		now:        time.Now,
		sleep:      sleepContext,
	}
}

// Sync loads the persisted RunState and syncs the changed articles.
// An unreadable state is treated as a first run.
func (d *SyncDriver) Sync(ctx context.Context, changed []domain.NormalisedArticle) domain.SyncResult {
	prior, err := d.states.Load(ctx)
	if err != nil {
		logger.Warn("sync: failed to load run state, starting fresh: %v", err)
		prior = domain.RunState{}
	}
	return d.SyncFrom(ctx, changed, prior)
}

// SyncFrom syncs the changed articles starting from an explicit prior state.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (d *SyncDriver) SyncFrom(
	ctx context.Context,
	changed []domain.NormalisedArticle,
	prior domain.RunState,
) domain.SyncResult {
	// 1. Nothing changed
	if len(changed) == 0 {
		return d.noop(ctx, prior)
	}

	state := prior
	result := domain.SyncResult{AgentID: prior.AgentID, IndexID: prior.IndexID}

	// 2. Upload
	logger.Section("Upload")
	result.Uploads = d.upload(ctx, changed, prior.PendingFiles)
	uploaded := result.FileIDs()
	result.Upload = domain.StageOutcome{Attempted: true, Succeeded: len(uploaded) > 0}
	if len(uploaded) == 0 {
		result.Upload.Err = domain.ErrNothingUploaded
		logger.Warn("sync: all %d uploads failed", len(changed))
	}
	logger.Info("sync: uploaded %d/%d files", len(uploaded), len(changed))

	state.FilesUploaded = len(uploaded)
	state.IndexAttachSuccess = false
	state.AgentAttachSuccess = false
	state.PendingFiles = mergePending(prior.PendingFiles, changed, result.Uploads)
	d.checkpoint(ctx, state)

	attachOK := false
	if len(state.PendingFiles) > 0 {
		// 3. Index resolution
		logger.Section("Index")
		indexID, outcome := d.resolveIndex(ctx, state.IndexID)
		result.IndexResolve = outcome
		state.IndexID = indexID
		result.IndexID = indexID
		d.checkpoint(ctx, state)

		// 4. Index attach
		if indexID != "" {
			batchStatus, err := d.attach(ctx, indexID, state.PendingFileIDs())
			result.BatchStatus = batchStatus
			result.IndexAttach = domain.StageOutcome{Attempted: true, Succeeded: err == nil, Err: err}
			if err != nil {
				logger.Warn("sync: index attach failed: %v", err)
			} else {
				attachOK = true
				state.PendingFiles = nil
			}
		}
	}
	state.IndexAttachSuccess = attachOK

	// 5. Agent resolution
	logger.Section("Agent")
	agentID, outcome := d.resolveAgent(ctx, state.AgentID)
	result.AgentResolve = outcome
	state.AgentID = agentID
	result.AgentID = agentID

	// 6. Agent-index binding
	if attachOK && agentID != "" {
		err := d.assistants.AttachVectorStores(ctx, agentID, []string{state.IndexID})
		result.AgentBind = domain.StageOutcome{Attempted: true, Succeeded: err == nil, Err: err}
		if err != nil {
			logger.Warn("sync: failed to bind index %s to agent %s: %v", state.IndexID, agentID, err)
		} else {
			logger.Info("sync: index %s bound to agent %s", state.IndexID, agentID)
		}
	}
	state.AgentAttachSuccess = result.AgentBind.Succeeded

	if len(state.PendingFiles) > 0 {
		logger.Warn("sync: %d files need manual attachment: %v", len(state.PendingFiles), state.PendingFileIDs())
	}

	// 7. Persist
	targeted := result.IndexID != ""
	result.Success = len(uploaded) > 0 && (!targeted || (attachOK && result.AgentBind.Succeeded))
	result.State = d.persist(ctx, state)

	logger.Info("sync: agent=%s index=%s success=%t", result.AgentID, result.IndexID, result.Success)
	return result
}

// noop handles an empty change set without touching the index.
func (d *SyncDriver) noop(ctx context.Context, prior domain.RunState) domain.SyncResult {
	result := domain.SyncResult{
		AgentID:        prior.AgentID,
		IndexID:        prior.IndexID,
		ShortCircuited: true,
		State:          prior,
	}

	if prior.AgentID != "" {
		logger.Info("sync: no changes, using existing agent %s", prior.AgentID)
		result.Success = true
		return result
	}

	logger.Info("sync: no changes and no agent yet, creating a bare agent")
	agentID, outcome := d.resolveAgent(ctx, "")
	result.AgentResolve = outcome
	result.AgentID = agentID
	result.Success = outcome.Succeeded

	state := prior
	state.AgentID = agentID
	state.FilesUploaded = 0
	result.State = d.persist(ctx, state)
	return result
}

// upload pushes each article as a standalone file, returning one outcome
// per article in order. A pending file with the article's current
// fingerprint is reused instead of uploading the same content again.
// Per-article failures are recorded and do not stop the stage.
func (d *SyncDriver) upload(
	ctx context.Context,
	changed []domain.NormalisedArticle,
	pending []domain.PendingFile,
) []domain.UploadOutcome {
	byArticle := make(map[string]domain.PendingFile, len(pending))
	for _, p := range pending {
		byArticle[p.ArticleID] = p
	}

	outcomes := make([]domain.UploadOutcome, 0, len(changed))
	for i := range changed {
		article := &changed[i]
		outcome := domain.UploadOutcome{ArticleID: article.ArticleID, Slug: article.Slug}

		if p, ok := byArticle[article.ArticleID]; ok && p.FileID != "" && p.Fingerprint == article.Fingerprint {
			outcome.FileID = p.FileID
			outcome.Reused = true
			logger.Debug("sync: reusing pending file %s for %s", p.FileID, article.Filename())
			outcomes = append(outcomes, outcome)
			continue
		}

		fileID, err := d.uploader.UploadFile(ctx, article.Filename(), []byte(article.Text))
		switch {
		case err != nil:
			outcome.Err = err
			logger.Warn("sync: failed to upload %s: %v", article.Filename(), err)
		case fileID == "":
			outcome.Err = fmt.Errorf("upload %s: empty file id", article.Filename())
			logger.Warn("sync: upload of %s returned no file id", article.Filename())
		default:
			outcome.FileID = fileID
			logger.Debug("sync: uploaded %s as %s", article.Filename(), fileID)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// resolveIndex reuses a confirmed index or creates a new one.
// An empty ID with a failed outcome means degraded mode.
func (d *SyncDriver) resolveIndex(ctx context.Context, known string) (string, domain.StageOutcome) {
	outcome := domain.StageOutcome{Attempted: true}

	candidate := known
	if candidate == "" {
		candidate = d.remote.VectorStoreID
	}
	if candidate != "" {
		exists, err := d.indexes.VectorStoreExists(ctx, candidate)
		switch {
		case err != nil:
			logger.Warn("sync: could not verify index %s: %v", candidate, err)
		case exists:
			logger.Info("sync: using existing index %s", candidate)
			outcome.Succeeded = true
			return candidate, outcome
		default:
			logger.Warn("sync: index %s no longer exists", candidate)
		}
	}

	id, err := d.indexes.CreateVectorStore(ctx, d.remote.IndexName)
	if err != nil {
		outcome.Err = fmt.Errorf("%w: %w", domain.ErrNoIndex, err)
		logger.Warn("sync: failed to create index, continuing without one: %v", err)
		return "", outcome
	}
	logger.Info("sync: created index %s", id)
	outcome.Succeeded = true
	return id, outcome
}

// attach submits the files as one batch and polls until the batch is
// terminal or the poll timeout elapses.
func (d *SyncDriver) attach(ctx context.Context, indexID string, fileIDs []string) (string, error) {
	batch, err := d.indexes.CreateFileBatch(ctx, indexID, fileIDs)
	if err != nil {
		return "", fmt.Errorf("create file batch: %w", err)
	}
	logger.Info("sync: attaching %d files to index %s (batch %s)", len(fileIDs), indexID, batch.ID)

	deadline := d.now().Add(d.cfg.PollTimeout)
	for !batch.IsTerminal() {
		if !d.now().Before(deadline) {
			return batch.Status, fmt.Errorf("%w: batch %s after %s", domain.ErrBatchTimeout, batch.ID, d.cfg.PollTimeout)
		}
		if err := d.sleep(ctx, d.cfg.PollInterval); err != nil {
			return batch.Status, err
		}

		next, err := d.indexes.GetFileBatch(ctx, indexID, batch.ID)
		if err != nil {
			logger.Warn("sync: failed to poll batch %s: %v", batch.ID, err)
			continue
		}
		batch = next
		logger.Debug("sync: batch %s status %s (%d/%d)", batch.ID, batch.Status, batch.Completed, batch.Total)
	}

	if !batch.Succeeded() {
		return batch.Status, fmt.Errorf("%w: batch %s is %s", domain.ErrBatchFailed, batch.ID, batch.Status)
	}
	return batch.Status, nil
}

// resolveAgent reuses the known agent or creates one with the fixed prompt.
func (d *SyncDriver) resolveAgent(ctx context.Context, known string) (string, domain.StageOutcome) {
	if known != "" {
		logger.Info("sync: using existing agent %s", known)
		return known, domain.StageOutcome{Succeeded: true}
	}

	outcome := domain.StageOutcome{Attempted: true}
	id, err := d.assistants.CreateAssistant(ctx, domain.DefaultAgentSpec(d.remote.Model))
	if err != nil {
		outcome.Err = err
		logger.Error("sync: failed to create agent: %v", err)
		return "", outcome
	}
	logger.Info("sync: created agent %s", id)
	outcome.Succeeded = true
	return id, outcome
}

// persist stamps and saves the state. A failed save is logged.
func (d *SyncDriver) persist(ctx context.Context, state domain.RunState) domain.RunState {
	state.LastSync = d.now().UTC()
	if err := d.states.Save(ctx, state); err != nil {
		logger.Error("sync: failed to persist run state: %v", err)
	}
	return state
}

// checkpoint saves intermediate progress so an interrupted run can resume.
func (d *SyncDriver) checkpoint(ctx context.Context, state domain.RunState) {
	if err := d.states.Save(ctx, state); err != nil {
		logger.Debug("sync: checkpoint failed: %v", err)
	}
}

// mergePending keeps prior pending files for articles that did not change
// and adds this run's files. A prior file for a changed article is dropped
// even when its re-upload failed, since its content is no longer current.
// outcomes must be aligned with changed.
func mergePending(
	prior []domain.PendingFile,
	changed []domain.NormalisedArticle,
	outcomes []domain.UploadOutcome,
) []domain.PendingFile {
	touched := make(map[string]bool, len(changed))
	for i := range changed {
		touched[changed[i].ArticleID] = true
	}

	var out []domain.PendingFile
	for _, p := range prior {
		if p.FileID == "" || touched[p.ArticleID] {
			continue
		}
		out = append(out, p)
	}
	for i, o := range outcomes {
		if !o.OK() || i >= len(changed) {
			continue
		}
		out = append(out, domain.PendingFile{
			ArticleID:   o.ArticleID,
			FileID:      o.FileID,
			Fingerprint: changed[i].Fingerprint,
		})
	}
	return out
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
