// Package mcp provides an MCP (Model Context Protocol) server adapter for helpsync.
// It lets AI assistants inspect sync state and preview pending changes
// without pushing anything to the remote service.
package mcp

import "errors"

// ErrMissingStatusService is returned when the status service is not provided.
var ErrMissingStatusService = errors.New("mcp: status service is required")
