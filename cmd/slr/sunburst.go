package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/helixir/slr-toolkit/internal/observability"
	"github.com/helixir/slr-toolkit/internal/sheet"
	"github.com/helixir/slr-toolkit/internal/sunburst"
)

func newSunburstCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sunburst",
		Short: "Draw the category/paper sunburst chart",
		Long: `Groups the reviewed papers by category and draws a two-ring sunburst:
categories inside, paper titles outside. Only papers whose "#" is at most
--max-depth are included.

The output extension selects the format: .svg renders the chart, .json
writes a plotly figure.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.runE(a.sunburst)

	flags := cmd.Flags()
	stringFlag(flags, "input", "", "Reviewed-papers CSV or workbook", "sunburst.input")
	stringFlag(flags, "sheet", "", "Worksheet name for workbook inputs", "sunburst.sheet")
	stringFlag(flags, "output", "", "Chart file (.svg or .json)", "sunburst.output")
	stringFlag(flags, "title", "", "Chart title", "sunburst.title")
	intFlag(flags, "max-depth", 0, "Highest paper number to include", "sunburst.max_depth")
	return cmd
}

func (a *app) sunburst(_ context.Context, logger zerolog.Logger) error {
	cfg := a.cfg.Sunburst
	logger = observability.WithInputContext(logger, cfg.Input, cfg.Sheet)

	// Fail on a bad extension before reading anything.
	if _, err := sunburst.FormatFor(cfg.Output); err != nil {
		return err
	}

	tbl, err := sheet.Load(cfg.Input, sheet.Options{Sheet: cfg.Sheet})
	if err != nil {
		return fmt.Errorf("load papers: %w", err)
	}
	if a.metrics != nil {
		a.metrics.RecordPapersLoaded(tbl.Len())
	}

	chart, err := sunburst.FromTable(tbl, sunburst.Options{
		MaxDepth: cfg.MaxDepth,
		Palette:  cfg.Palette,
	})
	if err != nil {
		return err
	}
	categories := len(chart.Categories())
	logger.Info().
		Int("rows", tbl.Len()).
		Int("categories", categories).
		Int("papers", chart.Papers()).
		Msg("chart built")
	if a.metrics != nil {
		a.metrics.RecordSunburst(categories, chart.Papers())
	}
	if chart.Papers() == 0 {
		logger.Warn().Int("max_depth", cfg.MaxDepth).Msg("no papers within max depth, chart is empty")
	}

	err = sunburst.WriteFile(cfg.Output, chart, sunburst.SVGOptions{
		Width:  cfg.Width,
		Height: cfg.Height,
		Title:  cfg.Title,
	})
	if err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	logger.Info().Str("output", cfg.Output).Msg("chart written")
	return nil
}
