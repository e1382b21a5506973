package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/helixir/slr-toolkit/internal/bib"
	"github.com/helixir/slr-toolkit/internal/latex"
	"github.com/helixir/slr-toolkit/internal/observability"
	"github.com/helixir/slr-toolkit/internal/sheet"
)

func newTablesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Generate LaTeX tables from the reviewed-papers sheet",
		Long: `Renders the configured tables from the reviewed-papers CSV or workbook.
Papers whose title matches a bibliography entry are cited with \cite{key}.

Presets:
  longtable  one multi-page results table (booktabs)
  table      five float tables in the original table* layout`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.runE(a.tables)

	flags := cmd.Flags()
	stringFlag(flags, "input", "", "Reviewed-papers CSV or workbook", "tables.input")
	stringFlag(flags, "sheet", "", "Worksheet name for workbook inputs", "tables.sheet")
	stringFlag(flags, "bib", "", "Bibliography used to resolve citation keys", "tables.bibliography")
	stringFlag(flags, "output", "", "Generated .tex file", "tables.output")
	stringFlag(flags, "preset", "", "Table preset (longtable, table)", "tables.preset")
	intFlag(flags, "max-rows", 0, "Data rows per table", "tables.max_rows")
	return cmd
}

func (a *app) tables(_ context.Context, logger zerolog.Logger) error {
	cfg := a.cfg.Tables
	logger = observability.WithInputContext(logger, cfg.Input, cfg.Sheet)

	preset, err := cfg.Resolve()
	if err != nil {
		return err
	}

	tbl, err := sheet.Load(cfg.Input, sheet.Options{Sheet: cfg.Sheet})
	if err != nil {
		return fmt.Errorf("load papers: %w", err)
	}
	logger.Info().Int("rows", tbl.Len()).Msg("papers loaded")
	if a.metrics != nil {
		a.metrics.RecordPapersLoaded(tbl.Len())
	}

	gen := &latex.Generator{Columns: preset.Columns, MaxRows: cfg.MaxRows}
	if ix := a.loadCiteIndex(logger, cfg.Bibliography); ix != nil {
		gen.Cites = ix
	}

	var buf bytes.Buffer
	for _, t := range preset.Tables {
		n, err := gen.Render(&buf, t, tbl.Rows)
		if err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		logger.Debug().Str("table", t.Name).Int("rows", n).Msg("table rendered")
		if a.metrics != nil {
			a.metrics.RecordTableRows(t.Name, n)
		}
	}

	if err := os.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write tables: %w", err)
	}
	logger.Info().Int("tables", len(preset.Tables)).Str("output", cfg.Output).Msg("tables written")
	return nil
}

// loadCiteIndex returns nil when path is empty or unreadable; tables are
// still generated, just without citations.
func (a *app) loadCiteIndex(logger zerolog.Logger, path string) *bib.Index {
	if path == "" {
		return nil
	}
	entries, err := bib.ParseFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("bibliography", path).Msg("bibliography not found, citations disabled")
		} else {
			logger.Warn().Err(err).Str("bibliography", path).Msg("bibliography unreadable, citations disabled")
		}
		return nil
	}
	ix := bib.BuildIndex(entries)
	logger.Debug().Int("entries", ix.Len()).Msg("bibliography indexed")
	return ix
}
