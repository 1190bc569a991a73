package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level LogLevel) (*LoopLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewLogger(&LoggerConfig{Level: level, Format: "json", Output: buf, Component: "test"}), buf
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "INFO", LogLevelInfo.String())
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
}

func TestLoopLoggerLevelFiltering(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("visible warn")
	logger.Error("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible warn")
	assert.Contains(t, out, "visible error")
}

func TestLoopLoggerContextualAttrs(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	logger.WithRun("run-123").Info("run.start", "steps", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "run-123", entry["run_id"])
	assert.Equal(t, float64(3), entry["steps"])
}

func TestLoopLoggerWithComponentCopies(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	scoped := logger.WithComponent("registry")
	scoped.Info("scoped")
	logger.Info("original")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"component":"registry"`)
	assert.Contains(t, lines[1], `"component":"test"`)
}

func TestLogModelCall(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	logger.LogModelCall("gpt-4o-mini", 120*time.Millisecond, true, nil)
	assert.Contains(t, buf.String(), "Model call completed")

	buf.Reset()
	logger.LogModelCall("gpt-4o-mini", 5*time.Millisecond, false, errors.New("timeout"))
	assert.Contains(t, buf.String(), "Model call failed")
	assert.Contains(t, buf.String(), "timeout")
}

func TestLogToolCall(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	logger.LogToolCall("get_weather", 3*time.Millisecond, true, nil)
	assert.Contains(t, buf.String(), "Tool execution completed")

	buf.Reset()
	logger.LogToolCall("get_weather", 3*time.Millisecond, false, errors.New("backend down"))
	assert.Contains(t, buf.String(), "Tool execution failed")
}

func TestSlogAdapterAndNoOp(t *testing.T) {
	assert.NotNil(t, NewDefaultSlogLogger())

	var l Logger = NoOpLogger{}
	l.Debug("ignored")
	l.Info("ignored")
	l.Warn("ignored")
	l.Error("ignored")
}
