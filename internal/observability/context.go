package observability

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Context keys for observability data.
type contextKey string

const (
	runIDKey   contextKey = "run_id"
	commandKey contextKey = "command"
)

// NewRunID returns a fresh identifier for one tool invocation.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext retrieves the run ID from context.
// Returns empty string if not present.
func RunIDFromContext(ctx context.Context) string {
	if v := ctx.Value(runIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// WithCommand adds the running command's name to the context.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// CommandFromContext retrieves the command name from context.
// Returns empty string if not present.
func CommandFromContext(ctx context.Context) string {
	if v := ctx.Value(commandKey); v != nil {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}

// RunContext contains the context data for a single invocation.
type RunContext struct {
	RunID   string
	Command string
}

// WithRunContextFull adds all run context to the context.
func WithRunContextFull(ctx context.Context, rc RunContext) context.Context {
	if rc.RunID != "" {
		ctx = WithRunID(ctx, rc.RunID)
	}
	if rc.Command != "" {
		ctx = WithCommand(ctx, rc.Command)
	}
	return ctx
}

// RunContextFromContext extracts all run context from the context.
func RunContextFromContext(ctx context.Context) RunContext {
	return RunContext{
		RunID:   RunIDFromContext(ctx),
		Command: CommandFromContext(ctx),
	}
}

// LoggerFromContext returns logger enriched with the run context stored in ctx.
func LoggerFromContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	rc := RunContextFromContext(ctx)
	if rc.RunID == "" && rc.Command == "" {
		return logger
	}
	return WithRunContext(logger, rc.RunID, rc.Command)
}
