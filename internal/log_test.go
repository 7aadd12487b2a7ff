package internal

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, LogLevelDebug, ParseLogLevel(" debug "))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := NewLogger(LogLevelWarn)
	logger.Info("hidden %d", 1)
	logger.Warn("shown %d", 2)
	logger.Error("shown %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 2")
	assert.Contains(t, out, "[ERROR] shown 3")
}

func TestWithComponentTagsLines(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	base := NewLogger(LogLevelDebug)
	ingest := base.WithComponent("Ingest")
	ingest.Debug("sheet %q skipped", "Q2")
	base.Info("plain")

	out := buf.String()
	assert.Contains(t, out, `[DEBUG] [Ingest] sheet "Q2" skipped`)
	assert.Contains(t, out, "[INFO] plain")
	assert.NotContains(t, out, "[INFO] [Ingest]")

	assert.Equal(t, "Ingest", ingest.Component())
	assert.Equal(t, LogLevelDebug, ingest.GetLevel())
	assert.Empty(t, base.Component())
}
