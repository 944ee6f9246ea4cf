package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil chat service returns error", func(t *testing.T) {
		ports := &Ports{Ingest: &mockIngestService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingChatService)
	})

	t.Run("nil ingest service returns error", func(t *testing.T) {
		ports := &Ports{Chat: &mockChatService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIngestService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Chat:   &mockChatService{},
			Ingest: &mockIngestService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("status service is optional", func(t *testing.T) {
		ports := &Ports{
			Chat:   &mockChatService{},
			Ingest: &mockIngestService{},
			Status: &mockStatusService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports", func(t *testing.T) {
		err := (&Ports{}).Validate()
		assert.ErrorIs(t, err, ErrMissingChatService)
	})

	t.Run("chat and ingest is valid", func(t *testing.T) {
		ports := &Ports{
			Chat:   &mockChatService{},
			Ingest: &mockIngestService{},
		}
		assert.NoError(t, ports.Validate())
	})
}
