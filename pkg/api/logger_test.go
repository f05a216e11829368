package api

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefaultLoggerWithOutput(LogWarn, &buf)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn %d", 1)
	log.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "[WARN] warn 1\n")
	assert.Contains(t, out, "[ERROR] error message\n")
}

func TestDefaultLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefaultLoggerWithOutput(LogError, &buf)
	assert.Equal(t, LogError, log.GetLevel())

	log.Info("hidden")
	log.SetLevel(LogInfo)
	log.Info("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[INFO] visible")
}
