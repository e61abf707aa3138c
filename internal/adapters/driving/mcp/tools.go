package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

// defaultHistory is the number of runs sync_status returns by default.
const defaultHistory = 5

// SyncStatusInput is the input schema for the sync_status tool.
type SyncStatusInput struct {
	History int `json:"history,omitempty" jsonschema:"number of recent runs to include (default 5)"`
}

// SyncStatusOutput is the output schema for the sync_status tool.
type SyncStatusOutput struct {
	AgentID            string      `json:"agent_id,omitempty"`
	IndexID            string      `json:"index_id,omitempty"`
	LastSync           string      `json:"last_sync,omitempty"`
	FilesUploaded      int         `json:"files_uploaded"`
	IndexAttachSuccess bool        `json:"index_attach_success"`
	AgentAttachSuccess bool        `json:"agent_attach_success"`
	PendingFiles       int         `json:"pending_files"`
	TrackedArticles    int         `json:"tracked_articles"`
	Runs               []RunOutput `json:"runs,omitempty"`
}

// RunOutput is one entry of the run history.
type RunOutput struct {
	RunID         string `json:"run_id"`
	StartedAt     string `json:"started_at"`
	Duration      string `json:"duration"`
	Added         int    `json:"added"`
	Updated       int    `json:"updated"`
	Skipped       int    `json:"skipped"`
	FilesUploaded int    `json:"files_uploaded"`
	UploadErrors  int    `json:"upload_errors"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

// DetectChangesInput is the input schema for the detect_changes tool.
type DetectChangesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of articles to consider (default: configured limit; negative for no limit)"`
}

// DetectChangesOutput is the output schema for the detect_changes tool.
type DetectChangesOutput struct {
	Fetched   int             `json:"fetched"`
	New       []ChangedOutput `json:"new"`
	Updated   []ChangedOutput `json:"updated"`
	Unchanged int             `json:"unchanged"`
}

// ChangedOutput identifies one new or updated article.
type ChangedOutput struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	URL       string `json:"url,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_status",
		Description: "Show the persisted sync state: agent, index, stage outcomes and recent runs",
	}, s.handleSyncStatus)

	if s.ports.Pipeline != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "detect_changes",
			Description: "Fetch the help center and list new and updated articles without syncing",
		}, s.handleDetectChanges)
	}
}

// handleSyncStatus handles the sync_status tool invocation.
func (s *Server) handleSyncStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncStatusInput,
) (*mcp.CallToolResult, SyncStatusOutput, error) {
	limit := input.History
	if limit <= 0 {
		limit = defaultHistory
	}

	status, err := s.ports.Status.Status(ctx, limit)
	if err != nil {
		return nil, SyncStatusOutput{}, err
	}
	return nil, toStatusOutput(status), nil
}

// handleDetectChanges handles the detect_changes tool invocation.
func (s *Server) handleDetectChanges(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DetectChangesInput,
) (*mcp.CallToolResult, DetectChangesOutput, error) {
	report, err := s.ports.Pipeline.Run(ctx, driving.RunOptions{Limit: input.Limit, DryRun: true})
	if err != nil {
		return nil, DetectChangesOutput{}, err
	}

	return nil, DetectChangesOutput{
		Fetched:   report.Fetched,
		New:       toChangedOutputs(report.Changes.New),
		Updated:   toChangedOutputs(report.Changes.Updated),
		Unchanged: len(report.Changes.Unchanged),
	}, nil
}

func toStatusOutput(status *driving.Status) SyncStatusOutput {
	state := status.State
	out := SyncStatusOutput{
		AgentID:            state.AgentID,
		IndexID:            state.IndexID,
		FilesUploaded:      state.FilesUploaded,
		IndexAttachSuccess: state.IndexAttachSuccess,
		AgentAttachSuccess: state.AgentAttachSuccess,
		PendingFiles:       len(state.PendingFiles),
		TrackedArticles:    status.SnapshotSize,
	}
	if !state.LastSync.IsZero() {
		out.LastSync = state.LastSync.Format(time.RFC3339)
	}
	for _, r := range status.History {
		out.Runs = append(out.Runs, RunOutput{
			RunID:         r.RunID,
			StartedAt:     r.StartedAt.Format(time.RFC3339),
			Duration:      r.Duration().Round(time.Millisecond).String(),
			Added:         r.Added,
			Updated:       r.Updated,
			Skipped:       r.Skipped,
			FilesUploaded: r.FilesUploaded,
			UploadErrors:  r.UploadErrors,
			Success:       r.Success,
			Error:         r.Error,
		})
	}
	return out
}

func toChangedOutputs(changes []domain.Change) []ChangedOutput {
	out := make([]ChangedOutput, 0, len(changes))
	for _, c := range changes {
		out = append(out, ChangedOutput{
			ArticleID: c.Article.ID,
			Title:     c.Article.Title,
			Slug:      c.Normalised.Slug,
			URL:       c.Article.URL,
		})
	}
	return out
}
