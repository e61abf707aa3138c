package mcp

import (
	"context"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

// mockStatusService is a mock implementation of driving.StatusService.
type mockStatusService struct {
	status    *driving.Status
	err       error
	lastLimit int
}

func (m *mockStatusService) Status(_ context.Context, historyLimit int) (*driving.Status, error) {
	m.lastLimit = historyLimit
	if m.err != nil {
		return nil, m.err
	}
	if m.status == nil {
		return &driving.Status{}, nil
	}
	return m.status, nil
}

// mockPipeline is a mock implementation of driving.Pipeline.
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
	return m.report, nil
}
