package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/helixir/slr-toolkit/internal/bib"
	"github.com/helixir/slr-toolkit/internal/domain"
	"github.com/helixir/slr-toolkit/internal/observability"
)

func newCleanBibCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean-bib [file]",
		Short: "Remove duplicate BibTeX entries and report key conflicts",
		Long: `Removes entries whose content is identical (ignoring whitespace and case)
to an earlier entry, keeping the first occurrence. Entries that share a key
but differ in content are kept and listed for manual review.

The file is rewritten in place unless --output is given, and left untouched
when nothing was removed.`,
		Args: cobra.MaximumNArgs(1),
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		if len(args) == 1 {
			a.cfg.Bibliography.Path = args[0]
		}
		return a.runE(func(ctx context.Context, logger zerolog.Logger) error {
			return a.cleanBib(ctx, logger, dryRun)
		})(c, args)
	}

	flags := cmd.Flags()
	stringFlag(flags, "output", "", "Write the cleaned bibliography here instead of rewriting the input", "bibliography.output")
	boolFlag(flags, "near-duplicates", false, "Also report probable duplicates filed under different keys", "bibliography.near_duplicates")
	floatFlag(flags, "title-threshold", 0, "Minimum title similarity for a probable duplicate", "bibliography.title_threshold")
	flags.BoolVar(&dryRun, "dry-run", false, "Report only, never write")
	return cmd
}

func (a *app) cleanBib(_ context.Context, logger zerolog.Logger, dryRun bool) error {
	cfg := a.cfg.Bibliography
	logger = observability.WithInputContext(logger, cfg.Path, "")

	entries, err := bib.ParseFile(cfg.Path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%s: %w", cfg.Path, domain.ErrNoEntries)
	}
	logger.Info().Int("entries", len(entries)).Msg("bibliography parsed")

	result := bib.Clean(entries)
	if cfg.NearDuplicates {
		result.DetectNearDuplicates(bib.NearDuplicateConfig{
			TitleThreshold:  cfg.TitleThreshold,
			AuthorThreshold: cfg.AuthorThreshold,
		})
	}
	if a.metrics != nil {
		a.metrics.RecordClean(result.Total(), result.Removed(), len(result.Duplicates), len(result.Conflicts), len(result.NearDuplicates))
	}

	output := cfg.Output
	if output == "" {
		output = cfg.Path
	}
	switch {
	case !result.Changed():
		logger.Info().Msg("no duplicates found, file unchanged")
	case dryRun:
		logger.Info().Int("removed", result.Removed()).Msg("dry run, file unchanged")
	default:
		if err := bib.WriteFile(output, result.Unique); err != nil {
			return fmt.Errorf("write cleaned bibliography: %w", err)
		}
		logger.Info().
			Int("removed", result.Removed()).
			Str("output", output).
			Msg("cleaned bibliography written")
	}

	if len(result.Conflicts) > 0 {
		logger.Warn().Int("conflicts", len(result.Conflicts)).Msg("conflicting keys need manual review")
	}
	return result.Print(a.stdout)
}
