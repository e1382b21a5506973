package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggingConfig(t *testing.T) {
	cfg := DefaultLoggingConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddSource)
}

func TestNewLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	t.Run("stderr by default", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		cfg := DefaultLoggingConfig()
		cfg.Format = "json"
		logger, closeFn, err := NewLogger(cfg, &stdout, &stderr)
		require.NoError(t, err)
		defer func() { require.NoError(t, closeFn()) }()

		logger.Info().Msg("to stderr")
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "to stderr")
	})

	t.Run("stdout json output", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		logger, closeFn, err := NewLogger(LoggingConfig{Level: "debug", Format: "json", Output: "STDOUT"}, &stdout, &stderr)
		require.NoError(t, err)
		defer func() { require.NoError(t, closeFn()) }()

		assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
		logger.Debug().Msg("to stdout")
		assert.Contains(t, stdout.String(), "to stdout")
		assert.Empty(t, stderr.String())
	})

	t.Run("file path appends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "slr.log")
		require.NoError(t, os.WriteFile(path, []byte("earlier\n"), 0o644))

		logger, closeFn, err := NewLogger(LoggingConfig{Level: "info", Format: "json", Output: path}, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)
		logger.Info().Msg("to file")
		require.NoError(t, closeFn())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "earlier\n"))
		assert.Contains(t, string(data), `"message":"to file"`)
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "slr.log")
		_, _, err := NewLogger(LoggingConfig{Output: path}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open log output")
	})
}

func TestNewLoggerTo(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, LoggingConfig{Level: "info", Format: "json"})
		logger.Debug().Msg("hidden")
		logger.Info().Str("k", "v").Msg("shown")

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		assert.Equal(t, "shown", logEntry["message"])
		assert.Equal(t, "v", logEntry["k"])
		assert.Contains(t, logEntry, "time")
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, LoggingConfig{Level: "info", Format: "console"})
		logger.Info().Msg("plain text")

		assert.Contains(t, buf.String(), "plain text")
		assert.NotContains(t, buf.String(), `"message"`)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"TRACE", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestWithRunContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	enriched := WithRunContext(logger, "run-123", "verify")
	enriched.Info().Msg("test message")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Equal(t, "run-123", logEntry["run_id"])
	assert.Equal(t, "verify", logEntry["command"])
	assert.Equal(t, "test message", logEntry["message"])
}

func TestWithInputContext(t *testing.T) {
	tests := []struct {
		name      string
		sheet     string
		wantSheet bool
	}{
		{name: "workbook", sheet: "SLR-Deep", wantSheet: true},
		{name: "csv", sheet: "", wantSheet: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := WithInputContext(zerolog.New(&buf), "SLR.xlsx", tt.sheet)
			logger.Info().Msg("loaded")

			var logEntry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
			assert.Equal(t, "SLR.xlsx", logEntry["input"])
			_, hasSheet := logEntry["sheet"]
			assert.Equal(t, tt.wantSheet, hasSheet)
		})
	}
}

func TestWithPaperContext(t *testing.T) {
	var buf bytes.Buffer
	logger := WithPaperContext(zerolog.New(&buf), 7, "Attention Is All You Need")
	logger.Warn().Msg("no match")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, float64(7), logEntry["row"])
	assert.Equal(t, "Attention Is All You Need", logEntry["title"])
	assert.Equal(t, "warn", logEntry["level"])
}
