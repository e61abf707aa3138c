package domain

import "time"

// RunState is the persisted, resumable record of the remote sync workflow.
// It is loaded at the start of a sync, mutated as each stage completes and
// persisted at the end regardless of overall success.
type RunState struct {
	// AgentID is the remote serving agent, empty before the first run.
	AgentID string `json:"agent_id,omitempty"`

	// IndexID is the remote search index, empty if none was ever resolved.
	IndexID string `json:"index_id,omitempty"`

	// LastSync is when the state was last persisted.
	LastSync time.Time `json:"last_sync"`

	// FilesUploaded is the number of files uploaded by the last run.
	FilesUploaded int `json:"files_uploaded"`

	// IndexAttachSuccess records whether the last attach batch completed.
	IndexAttachSuccess bool `json:"index_attach_success"`

	// AgentAttachSuccess records whether the index was bound to the agent.
	AgentAttachSuccess bool `json:"agent_attach_success"`

	// PendingFiles are uploaded files not yet attached to the index, at
	// most one per article. The next run attaches them, reusing a file
	// whose fingerprint still matches and dropping one whose article was
	// uploaded again.
	PendingFiles []PendingFile `json:"pending_files,omitempty"`
}

// PendingFile is an uploaded file awaiting attachment.
type PendingFile struct {
	ArticleID   string `json:"article_id"`
	FileID      string `json:"file_id"`
	Fingerprint string `json:"fingerprint"`
}

// IsZero reports whether the state describes a first run.
func (s RunState) IsZero() bool {
	return s.AgentID == "" && s.IndexID == "" && s.LastSync.IsZero()
}

// PendingFileIDs returns the IDs of the pending files in order.
func (s RunState) PendingFileIDs() []string {
	if len(s.PendingFiles) == 0 {
		return nil
	}
	ids := make([]string, 0, len(s.PendingFiles))
	for _, p := range s.PendingFiles {
		ids = append(ids, p.FileID)
	}
	return ids
}

// StageOutcome records what happened to one stage of the sync workflow.
type StageOutcome struct {
	Attempted bool
	Succeeded bool
	Err       error
}

// UploadOutcome is the per-document result of the upload stage.
type UploadOutcome struct {
	ArticleID string
	Slug      string
	FileID    string
	Err       error

	// Reused is true when FileID came from a pending file with the same
	// fingerprint instead of a new upload.
	Reused bool
}

// OK reports whether the upload produced a remote file.
func (u UploadOutcome) OK() bool {
	return u.Err == nil && u.FileID != ""
}

// SyncResult is the outcome of one Sync Driver invocation.
// Partial success is a valid terminal outcome, not an error.
type SyncResult struct {
	AgentID string
	IndexID string

	// Success is true when at least one file was uploaded and either no
	// index was targeted or the index was attached and bound.
	Success bool

	// ShortCircuited is true when there was nothing to upload.
	ShortCircuited bool

	Uploads      []UploadOutcome
	Upload       StageOutcome
	IndexResolve StageOutcome
	IndexAttach  StageOutcome
	AgentResolve StageOutcome
	AgentBind    StageOutcome

	// BatchStatus is the last observed status of the attach batch.
	BatchStatus string

	// State is the RunState persisted at the end of the sync.
	State RunState
}

// FileIDs returns the remote file IDs uploaded by this sync, in order.
func (r SyncResult) FileIDs() []string {
	var ids []string
	for _, u := range r.Uploads {
		if u.OK() {
			ids = append(ids, u.FileID)
		}
	}
	return ids
}

// UploadedCount returns the number of successful uploads.
func (r SyncResult) UploadedCount() int {
	return len(r.FileIDs())
}

// FailedCount returns the number of failed uploads.
func (r SyncResult) FailedCount() int {
	return len(r.Uploads) - r.UploadedCount()
}
