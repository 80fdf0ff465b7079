package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil analyzer returns error", func(t *testing.T) {
		ports := &Ports{Reports: &mockReportReader{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingAnalyzer)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Analyzer: &mockAnalyzer{},
			Reports:  &mockReportReader{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil analyzer returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingAnalyzer)
	})

	t.Run("nil report reader returns error", func(t *testing.T) {
		ports := &Ports{Analyzer: &mockAnalyzer{}}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingReports)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Analyzer: &mockAnalyzer{},
			Reports:  &mockReportReader{},
			Settings: &mockSettingsService{},
			History:  &mockHistoryService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}
