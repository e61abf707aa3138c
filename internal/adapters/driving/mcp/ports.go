package mcp

import (
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Status reports persisted run state and history.
	Status driving.StatusService

	// Pipeline runs change detection. Only dry runs are issued.
	Pipeline driving.Pipeline
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Status == nil {
		return ErrMissingStatusService
	}
	// Pipeline is optional; detect_changes is not registered without it.
	return nil
}
