// Package observability provides logging, metrics, and run context support
// for the SLR command-line tools.
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "console",
//	    Output: "stderr",
//	}
//
//	logger, closeLog, err := observability.NewLogger(cfg, os.Stdout, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//	logger = observability.WithRunContext(logger, runID, "verify")
//	logger.Info().Int("papers", n).Msg("sheet loaded")
//
// Logs default to stderr; stdout is reserved for reports. Any other Output is
// a file path that is appended to.
//
// # Metrics
//
// Each run owns a private registry:
//
//	metrics := observability.NewMetrics("slr")
//	metrics.RecordClean(total, removed, groups, conflicts, near)
//	metrics.RecordRun("clean-bib", elapsed.Seconds(), err)
//	err := metrics.WriteTextfile("/var/lib/node_exporter/slr.prom")
//
// # Context Helpers
//
//	ctx = observability.WithRunContextFull(ctx, observability.RunContext{
//	    RunID:   observability.NewRunID(),
//	    Command: "tables",
//	})
//	logger = observability.LoggerFromContext(ctx, logger)
//
// # Standard Fields
//
//   - run_id: identifier of one invocation
//   - command: subcommand name (clean-bib, tables, sunburst, verify)
//   - input: sheet or bibliography being read
//   - sheet: worksheet name for workbook inputs
//   - row: 1-based data row of a reviewed paper
package observability
