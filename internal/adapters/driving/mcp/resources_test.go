package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStateResource(t *testing.T) {
	status := &mockStatusService{status: &driving.Status{
		State:        domain.RunState{AgentID: "asst_1", FilesUploaded: 2},
		SnapshotSize: 7,
	}}
	server, err := NewServer(&Ports{Status: status})
	require.NoError(t, err)

	result, err := server.handleStateResource(context.Background(), readRequest(uriScheme+"state"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "helpsync://state", result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Equal(t, 0, status.lastLimit)

	var out SyncStatusOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &out))
	assert.Equal(t, "asst_1", out.AgentID)
	assert.Equal(t, 7, out.TrackedArticles)
}

func TestServer_handleHistoryResource(t *testing.T) {
	t.Run("lists runs", func(t *testing.T) {
		status := &mockStatusService{status: &driving.Status{
			History: []domain.RunReport{{RunID: "b"}, {RunID: "a"}},
		}}
		server, err := NewServer(&Ports{Status: status})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(context.Background(), readRequest(uriScheme+"history"))
		require.NoError(t, err)
		assert.Equal(t, historyResourceLimit, status.lastLimit)

		var runs []RunOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &runs))
		require.Len(t, runs, 2)
		assert.Equal(t, "b", runs[0].RunID)
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		server, err := NewServer(&Ports{Status: &mockStatusService{}})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(context.Background(), readRequest(uriScheme+"history"))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("status error", func(t *testing.T) {
		server, err := NewServer(&Ports{Status: &mockStatusService{err: errors.New("locked")}})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(context.Background(), readRequest(uriScheme+"history"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading history")
	})
}
