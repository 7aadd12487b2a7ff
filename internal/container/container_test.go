package container

import (
	"context"
	"strings"
	"testing"

	"sheetchart/domain/sheet"
	"sheetchart/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNewWiresPipeline(t *testing.T) {
	c, err := New(config.Default())
	require.NoError(t, err)

	assert.Equal(t, sheet.FileKindCSV, c.Decoder.DetectKind("a.csv"))
	assert.Equal(t, config.Default().Normalize.DateSerial.Min, c.Normalizer.Rule().Min)

	result, err := c.Pipeline.Run(context.Background(), "a.csv", strings.NewReader("x,y\n1,2\n"))
	require.NoError(t, err)
	assert.Len(t, result.Entries, 1)
	assert.Nil(t, c.Sessions)
}

func TestInitSessionsAndShutdown(t *testing.T) {
	c, err := New(config.Default())
	require.NoError(t, err)

	m := c.InitSessions()
	require.NotNil(t, m)
	assert.Same(t, m, c.InitSessions())

	m.Create()
	assert.Equal(t, 1, m.Len())
	assert.NoError(t, c.Shutdown(context.Background()))
}
