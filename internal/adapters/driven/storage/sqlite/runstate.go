package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// runStateStore implements driven.RunStateStore.
type runStateStore struct {
	store *Store
}

var _ driven.RunStateStore = (*runStateStore)(nil)

// Load returns the stored state, or a zero state if none exists or the row
// cannot be read.
func (s *runStateStore) Load(ctx context.Context) (domain.RunState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT agent_id, index_id, last_sync, files_uploaded,
		       index_attach_success, agent_attach_success, pending_files
		FROM run_state WHERE id = 1
	`)

	var state domain.RunState
	var agentID, indexID, lastSync sql.NullString
	var indexOK, agentOK int
	var pending string
	err := row.Scan(&agentID, &indexID, &lastSync, &state.FilesUploaded, &indexOK, &agentOK, &pending)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RunState{}, nil
	}
	if err != nil {
		logger.Warn("sqlite: reading run state: %v, starting fresh", err)
		return domain.RunState{}, nil
	}

	state.AgentID = agentID.String
	state.IndexID = indexID.String
	state.LastSync = parseNullableTime(lastSync)
	state.IndexAttachSuccess = indexOK == 1
	state.AgentAttachSuccess = agentOK == 1
	if err := json.Unmarshal([]byte(pending), &state.PendingFiles); err != nil {
		logger.Warn("sqlite: decoding pending files: %v", err)
		state.PendingFiles = nil
	}
	if len(state.PendingFiles) == 0 {
		state.PendingFiles = nil
	}
	return state, nil
}

// Save replaces the stored state.
func (s *runStateStore) Save(ctx context.Context, state domain.RunState) error {
	pending := state.PendingFiles
	if pending == nil {
		pending = []domain.PendingFile{}
	}
	pendingJSON, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshalling pending files: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO run_state (id, agent_id, index_id, last_sync, files_uploaded,
			index_attach_success, agent_attach_success, pending_files)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			agent_id = excluded.agent_id,
			index_id = excluded.index_id,
			last_sync = excluded.last_sync,
			files_uploaded = excluded.files_uploaded,
			index_attach_success = excluded.index_attach_success,
			agent_attach_success = excluded.agent_attach_success,
			pending_files = excluded.pending_files
	`, nullString(state.AgentID), nullString(state.IndexID), formatNullableTime(state.LastSync),
		state.FilesUploaded, boolToInt(state.IndexAttachSuccess), boolToInt(state.AgentAttachSuccess),
		string(pendingJSON))
	if err != nil {
		return fmt.Errorf("saving run state: %w", err)
	}
	return nil
}
