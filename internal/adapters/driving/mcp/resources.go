package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for helpsync resources.
const uriScheme = "helpsync://"

// historyResourceLimit caps the runs returned by the history resource.
const historyResourceLimit = 50

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "state",
		Name:        "state",
		Description: "Persisted sync workflow state",
		MIMEType:    "application/json",
	}, s.handleStateResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent pipeline runs, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleStateResource returns the current run state.
func (s *Server) handleStateResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Status.Status(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("loading status: %w", err)
	}
	return jsonResource(req.Params.URI, toStatusOutput(status))
}

// handleHistoryResource returns recent run reports.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Status.Status(ctx, historyResourceLimit)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	runs := toStatusOutput(status).Runs
	if runs == nil {
		runs = []RunOutput{}
	}
	return jsonResource(req.Params.URI, runs)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
