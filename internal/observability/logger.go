package observability

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggingConfig contains logger configuration options.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error, fatal, panic).
	Level string

	// Format is the output format (json, console, pretty).
	Format string

	// Output is the output destination (stdout, stderr, or a file path).
	Output string

	// AddSource adds source file and line number to log entries.
	AddSource bool

	// TimeFormat is the time format for timestamps.
	TimeFormat string
}

// DefaultLoggingConfig returns a LoggingConfig suited to interactive use.
// Logs go to stderr so that reports written to stdout stay clean.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      "info",
		Format:     "console",
		Output:     "stderr",
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// OpenOutput resolves a logging destination. "stdout" and "stderr" select the
// given writers; any other value is a file opened for appending. The returned
// close function releases that file.
func OpenOutput(output string, stdout, stderr io.Writer) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "stderr":
		return stderr, noop, nil
	case "stdout":
		return stdout, noop, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output: %w", err)
	}
	return f, f.Close, nil
}

// NewLogger creates a logger for cfg.Output, with stdout and stderr standing
// in for the process streams. Callers must run the close function when done.
func NewLogger(cfg LoggingConfig, stdout, stderr io.Writer) (zerolog.Logger, func() error, error) {
	w, closeFn, err := OpenOutput(cfg.Output, stdout, stderr)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return NewLoggerTo(w, cfg), closeFn, nil
}

// NewLoggerTo creates a logger writing to w, ignoring cfg.Output.
func NewLoggerTo(w io.Writer, cfg LoggingConfig) zerolog.Logger {
	output := w

	// Configure time format
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	format := strings.ToLower(cfg.Format)
	if format == "console" || format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: zerolog.TimeFieldFormat,
			NoColor:    format == "console",
		}
	}

	logger := zerolog.New(output).With().Timestamp()

	// Add caller information if configured
	if cfg.AddSource {
		logger = logger.Caller()
	}

	log := logger.Logger()

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)
	log = log.Level(level)

	return log
}

// parseLevel converts a string log level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithRunContext adds the run identifier and command name to a logger.
func WithRunContext(logger zerolog.Logger, runID, command string) zerolog.Logger {
	return logger.With().
		Str("run_id", runID).
		Str("command", command).
		Logger()
}

// WithInputContext adds the input file and, for workbooks, the sheet name.
func WithInputContext(logger zerolog.Logger, input, sheet string) zerolog.Logger {
	ctx := logger.With().Str("input", input)
	if sheet != "" {
		ctx = ctx.Str("sheet", sheet)
	}
	return ctx.Logger()
}

// WithPaperContext adds the sheet row and title of a reviewed paper.
func WithPaperContext(logger zerolog.Logger, row int, title string) zerolog.Logger {
	return logger.With().
		Int("row", row).
		Str("title", title).
		Logger()
}
