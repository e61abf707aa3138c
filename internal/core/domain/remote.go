package domain

// Remote batch statuses reported by the index service.
const (
	BatchInProgress = "in_progress"
	BatchQueued     = "queued"
	BatchCompleted  = "completed"
	BatchCancelled  = "cancelled"
	BatchFailed     = "failed"
)

// FileBatch is a handle to a batch attach operation on a remote index.
type FileBatch struct {
	ID      string
	IndexID string
	Status  string

	// Counts as reported by the service; zero when not reported.
	Completed int
	Failed    int
	Total     int
}

// IsTerminal reports whether the batch will not change status again.
func (b FileBatch) IsTerminal() bool {
	return b.Status != BatchInProgress && b.Status != BatchQueued && b.Status != ""
}

// Succeeded reports whether the batch completed.
func (b FileBatch) Succeeded() bool {
	return b.Status == BatchCompleted
}

// AgentSpec describes a serving agent to create.
type AgentSpec struct {
	Name         string
	Instructions string
	Model        string

	// Retrieval enables the file search capability.
	Retrieval bool
}

// DefaultAgentSpec returns the agent created when none exists.
func DefaultAgentSpec(model string) AgentSpec {
	if model == "" {
		model = AgentModel
	}
	return AgentSpec{
		Name:         AgentName,
		Instructions: AgentInstructions,
		Model:        model,
		Retrieval:    true,
	}
}
