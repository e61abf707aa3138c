package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil status service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingStatusService)
	})

	t.Run("status only creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Status: &mockStatusService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.Handler())
	})

	t.Run("all ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Status:   &mockStatusService{},
			Pipeline: &mockPipeline{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{Pipeline: &mockPipeline{}}).Validate(), ErrMissingStatusService)
	assert.NoError(t, (&Ports{Status: &mockStatusService{}}).Validate())
}
