package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/helixir/slr-toolkit/internal/bib"
	"github.com/helixir/slr-toolkit/internal/domain"
	"github.com/helixir/slr-toolkit/internal/observability"
	"github.com/helixir/slr-toolkit/internal/sheet"
	"github.com/helixir/slr-toolkit/internal/verify"
)

func newVerifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the draft's literature statistics against the data",
		Long: `Matches every reviewed paper to its bibliography entry by title, then
recomputes the publication trend, model usage and venue distribution and
compares them with the figures claimed in the draft (verify.claims).

The result is a Markdown report listing every figure with a check mark or a
cross, the papers behind each figure and the discrepancies found.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.runE(a.verify)

	flags := cmd.Flags()
	stringFlag(flags, "input", "", "Reviewed-papers workbook or CSV", "verify.input")
	stringFlag(flags, "sheet", "", "Worksheet name for workbook inputs", "verify.sheet")
	stringFlag(flags, "bib", "", "Bibliography to match against", "verify.bibliography")
	stringFlag(flags, "output", "", "Markdown report file", "verify.output")
	floatFlag(flags, "threshold", 0, "Minimum title match score", "verify.match_threshold")
	return cmd
}

func (a *app) verify(ctx context.Context, logger zerolog.Logger) error {
	cfg := a.cfg.Verify
	logger = observability.WithInputContext(logger, cfg.Input, cfg.Sheet)

	tbl, err := sheet.Load(cfg.Input, sheet.Options{Sheet: cfg.Sheet})
	if err != nil {
		return fmt.Errorf("load papers: %w", err)
	}
	papers := tbl.Papers()
	logger.Info().Int("papers", len(papers)).Msg("papers loaded")
	if a.metrics != nil {
		a.metrics.RecordPapersLoaded(len(papers))
	}

	entries, err := bib.ParseFile(cfg.Bibliography)
	if err != nil {
		return err
	}
	ix := bib.BuildIndex(entries)
	if ix.Len() == 0 {
		return fmt.Errorf("%s: %w", cfg.Bibliography, domain.ErrNoEntries)
	}
	logger.Info().Int("entries", ix.Len()).Msg("bibliography indexed")

	matcher := verify.NewMatcher(ix)
	matcher.Threshold = cfg.MatchThreshold
	matcher.YearBonus = cfg.YearBonus
	matches, unmatched := matcher.MatchAll(papers)
	for _, u := range unmatched {
		paperLogger := observability.WithPaperContext(logger, u.Paper.Row, u.Paper.Title)
		paperLogger.Warn().
			Str("best_key", u.BestKey).
			Float64("best_score", u.BestScore).
			Msg("no bibliography match")
	}

	result := verify.Analyze(papers, matches, unmatched)
	result.RunID = observability.RunIDFromContext(ctx)
	discrepancies := verify.Discrepancies(result, cfg.Claims)
	if a.metrics != nil {
		a.metrics.RecordVerification(result.Matched, len(result.Unmatched), len(discrepancies))
	}

	var buf bytes.Buffer
	if err := verify.WriteReport(&buf, result, verify.ReportOptions{Title: cfg.Title, Claims: cfg.Claims}); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := os.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info().
		Int("matched", result.Matched).
		Int("unmatched", len(result.Unmatched)).
		Int("discrepancies", len(discrepancies)).
		Str("output", cfg.Output).
		Msg("verification report written")
	for _, d := range discrepancies {
		fmt.Fprintln(a.stdout, d)
	}
	return nil
}
