package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
)

// runHistoryStore implements driven.RunHistoryStore.
type runHistoryStore struct {
	store *Store
}

var _ driven.RunHistoryStore = (*runHistoryStore)(nil)

// Record appends a run report. Recording the same RunID twice replaces it.
func (s *runHistoryStore) Record(ctx context.Context, report domain.RunReport) error {
	if report.RunID == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO run_history (run_id, started_at, finished_at, dry_run, fetched,
			added, updated, skipped, files_uploaded, upload_errors, agent_id, index_id, success, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.RunID, formatNullableTime(report.StartedAt), formatNullableTime(report.FinishedAt),
		boolToInt(report.DryRun), report.Fetched, report.Added, report.Updated, report.Skipped,
		report.FilesUploaded, report.UploadErrors, nullString(report.AgentID), nullString(report.IndexID),
		boolToInt(report.Success), nullString(report.Error))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns up to limit reports, newest first.
// A non-positive limit returns every report.
func (s *runHistoryStore) List(ctx context.Context, limit int) ([]domain.RunReport, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT run_id, started_at, finished_at, dry_run, fetched, added, updated, skipped,
		       files_uploaded, upload_errors, agent_id, index_id, success, error
		FROM run_history
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying run history: %w", err)
	}
	defer rows.Close()

	var reports []domain.RunReport //nolint:prealloc // size unknown from query
	for rows.Next() {
		report, err := scanRunReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run history: %w", err)
	}
	return reports, nil
}

// Prune keeps only the most recent keep reports.
func (s *runHistoryStore) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM run_history
		WHERE seq NOT IN (
			SELECT seq FROM run_history ORDER BY seq DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning run history: %w", err)
	}
	return nil
}

// scanRunReport scans a run report from *sql.Rows.
func scanRunReport(rows *sql.Rows) (domain.RunReport, error) {
	var r domain.RunReport
	var startedAt, finishedAt, agentID, indexID, errMsg sql.NullString
	var dryRun, success int

	if err := rows.Scan(&r.RunID, &startedAt, &finishedAt, &dryRun, &r.Fetched, &r.Added,
		&r.Updated, &r.Skipped, &r.FilesUploaded, &r.UploadErrors, &agentID, &indexID,
		&success, &errMsg); err != nil {
		return domain.RunReport{}, fmt.Errorf("scanning run report: %w", err)
	}

	r.StartedAt = parseNullableTime(startedAt)
	r.FinishedAt = parseNullableTime(finishedAt)
	r.DryRun = dryRun == 1
	r.AgentID = agentID.String
	r.IndexID = indexID.String
	r.Success = success == 1
	r.Error = errMsg.String
	return r, nil
}
