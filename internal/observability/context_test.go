package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()

	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRunIDContext(t *testing.T) {
	t.Run("stores and retrieves run ID", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "run-123")
		assert.Equal(t, "run-123", RunIDFromContext(ctx))
	})

	t.Run("returns empty string when not set", func(t *testing.T) {
		assert.Equal(t, "", RunIDFromContext(context.Background()))
	})
}

func TestCommandContext(t *testing.T) {
	t.Run("stores and retrieves command", func(t *testing.T) {
		ctx := WithCommand(context.Background(), "tables")
		assert.Equal(t, "tables", CommandFromContext(ctx))
	})

	t.Run("returns empty string when not set", func(t *testing.T) {
		assert.Equal(t, "", CommandFromContext(context.Background()))
	})
}

func TestRunContextFull(t *testing.T) {
	t.Run("stores all fields", func(t *testing.T) {
		rc := RunContext{RunID: "run-1", Command: "sunburst"}
		ctx := WithRunContextFull(context.Background(), rc)
		assert.Equal(t, rc, RunContextFromContext(ctx))
	})

	t.Run("skips empty fields", func(t *testing.T) {
		ctx := WithRunContextFull(context.Background(), RunContext{Command: "verify"})
		assert.Equal(t, RunContext{Command: "verify"}, RunContextFromContext(ctx))
	})
}

func TestLoggerFromContext(t *testing.T) {
	t.Run("adds run fields", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithRunContextFull(context.Background(), RunContext{RunID: "run-9", Command: "clean-bib"})

		logger := LoggerFromContext(ctx, zerolog.New(&buf))
		logger.Info().Msg("done")

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		assert.Equal(t, "run-9", logEntry["run_id"])
		assert.Equal(t, "clean-bib", logEntry["command"])
	})

	t.Run("leaves logger untouched without run context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := LoggerFromContext(context.Background(), zerolog.New(&buf))
		logger.Info().Msg("done")

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		assert.NotContains(t, logEntry, "run_id")
	})
}
