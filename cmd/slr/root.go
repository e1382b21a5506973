package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/helixir/slr-toolkit/internal/config"
	"github.com/helixir/slr-toolkit/internal/observability"
)

// configKeyAnnotation ties a flag to the dotted config key it overrides.
const configKeyAnnotation = "slr/config-key"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string

	cfg     *config.Config
	logger  zerolog.Logger
	metrics *observability.Metrics
	runID   string

	closeLog func() error
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{stdout: stdout, stderr: stderr, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "slr",
		Short: "Tools for maintaining a systematic literature review",
		Long: `slr keeps the artefacts of a systematic literature review in sync with
the reviewed-papers spreadsheet and the BibTeX bibliography.

Settings come from slr.yaml (working directory, ./config or ~/.config/slr),
SLR_* environment variables and command-line flags, in increasing priority.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default: slr.yaml search path)")
	stringFlag(root.PersistentFlags(), "log-level", "", "Log level (trace, debug, info, warn, error)", "logging.level")
	stringFlag(root.PersistentFlags(), "log-format", "", "Log format (json, console, pretty)", "logging.format")
	stringFlag(root.PersistentFlags(), "log-output", "", "Log destination (stdout, stderr, or a file path)", "logging.output")
	stringFlag(root.PersistentFlags(), "metrics-textfile", "", "Write run metrics to this file in Prometheus text format", "metrics.textfile")

	root.AddCommand(
		newCleanBibCmd(a),
		newTablesCmd(a),
		newSunburstCmd(a),
		newVerifyCmd(a),
		newVersionCmd(a),
	)
	return root, a
}

// close releases the log file, if logging went to one.
func (a *app) close() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}

// setup loads configuration and prepares logging and metrics for the
// command about to run.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// help and version must work without a valid configuration.
	if cmd.Annotations["standalone"] == "true" || cmd.Name() == "help" {
		return nil
	}

	cfg, err := config.Load(a.configFile, flagOverrides(cmd.Flags()))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logger, closeLog, err := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	}, a.stdout, a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closeLog

	if cfg.Metrics.Enabled {
		a.metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	a.runID = observability.NewRunID()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(observability.WithRunContextFull(ctx, observability.RunContext{
		RunID:   a.runID,
		Command: cmd.Name(),
	}))
	return nil
}

// runE wraps a subcommand body with run logging and metrics.
func (a *app) runE(fn func(ctx context.Context, logger zerolog.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		logger := observability.LoggerFromContext(ctx, a.logger)

		start := time.Now()
		err := fn(ctx, logger)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error().Err(err).Dur("elapsed", elapsed).Msg("command failed")
		} else {
			logger.Debug().Dur("elapsed", elapsed).Msg("command finished")
		}

		if a.metrics != nil {
			a.metrics.RecordRun(cmd.Name(), elapsed.Seconds(), err)
			if path := a.cfg.Metrics.Textfile; path != "" {
				if werr := a.metrics.WriteTextfile(path); werr != nil {
					logger.Warn().Err(werr).Str("path", path).Msg("failed to write metrics")
				}
			}
		}
		return err
	}
}

// stringFlag defines a string flag that overrides key when set.
func stringFlag(fs *pflag.FlagSet, name, value, usage, key string) {
	fs.String(name, value, usage)
	annotate(fs, name, key)
}

func boolFlag(fs *pflag.FlagSet, name string, value bool, usage, key string) {
	fs.Bool(name, value, usage)
	annotate(fs, name, key)
}

func intFlag(fs *pflag.FlagSet, name string, value int, usage, key string) {
	fs.Int(name, value, usage)
	annotate(fs, name, key)
}

func floatFlag(fs *pflag.FlagSet, name string, value float64, usage, key string) {
	fs.Float64(name, value, usage)
	annotate(fs, name, key)
}

func annotate(fs *pflag.FlagSet, name, key string) {
	// SetAnnotation only fails for unknown flags.
	_ = fs.SetAnnotation(name, configKeyAnnotation, []string{key})
}

// flagOverrides collects the config overrides of every flag set on the
// command line. Unset flags leave the config file and environment in charge.
func flagOverrides(fs *pflag.FlagSet) map[string]any {
	overrides := make(map[string]any)
	fs.Visit(func(f *pflag.Flag) {
		if keys := f.Annotations[configKeyAnnotation]; len(keys) > 0 {
			overrides[keys[0]] = f.Value.String()
		}
	})
	return overrides
}
