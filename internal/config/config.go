// Package config provides configuration management for the SLR toolkit.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/helixir/slr-toolkit/internal/latex"
	"github.com/helixir/slr-toolkit/internal/sunburst"
	"github.com/helixir/slr-toolkit/internal/verify"
)

// EnvPrefix prefixes every environment variable override, e.g. SLR_LOGGING_LEVEL.
const EnvPrefix = "SLR"

// Config holds all configuration for the SLR tools.
type Config struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains run metrics settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Bibliography contains BibTeX cleaner settings.
	Bibliography BibliographyConfig `mapstructure:"bibliography"`
	// Tables contains LaTeX table generator settings.
	Tables TablesConfig `mapstructure:"tables"`
	// Sunburst contains sunburst chart settings.
	Sunburst SunburstConfig `mapstructure:"sunburst"`
	// Verify contains claim verification settings.
	Verify VerifyConfig `mapstructure:"verify"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console, pretty).
	Format string `mapstructure:"format" validate:"oneof=json console pretty"`
	// Output is the log output destination (stdout, stderr, file path).
	Output string `mapstructure:"output" validate:"required"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection.
	Enabled bool `mapstructure:"enabled"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
	// Textfile, when set, receives the run metrics in Prometheus text format
	// for the node exporter textfile collector.
	Textfile string `mapstructure:"textfile"`
}

// BibliographyConfig holds BibTeX cleaner configuration.
type BibliographyConfig struct {
	// Path is the bibliography to clean.
	Path string `mapstructure:"path" validate:"required"`
	// Output is where the cleaned file goes. Empty means rewrite Path in place.
	Output string `mapstructure:"output"`
	// NearDuplicates enables reporting of probable duplicates under different keys.
	NearDuplicates bool `mapstructure:"near_duplicates"`
	// TitleThreshold is the minimum title similarity for a near duplicate (0.0-1.0).
	TitleThreshold float64 `mapstructure:"title_threshold" validate:"gte=0,lte=1"`
	// AuthorThreshold is the minimum author overlap for a near duplicate (0.0-1.0).
	AuthorThreshold float64 `mapstructure:"author_threshold" validate:"gte=0,lte=1"`
}

// TablesConfig holds LaTeX table generator configuration.
type TablesConfig struct {
	// Input is the reviewed-papers CSV or workbook.
	Input string `mapstructure:"input" validate:"required"`
	// Sheet is the worksheet for workbook inputs. Empty means the first sheet.
	Sheet string `mapstructure:"sheet"`
	// Bibliography resolves citation keys. Empty disables citations.
	Bibliography string `mapstructure:"bibliography"`
	// Output is the generated .tex file.
	Output string `mapstructure:"output" validate:"required"`
	// Preset selects the built-in column mapping and tables (longtable, table).
	Preset string `mapstructure:"preset" validate:"oneof=longtable table"`
	// MaxRows limits the data rows per table.
	MaxRows int `mapstructure:"max_rows" validate:"gte=1"`
	// Columns overrides the preset's logical column → 0-based index mapping.
	Columns map[string]int `mapstructure:"columns" validate:"dive,gte=0"`
	// Definitions overrides the preset's tables.
	Definitions []TableConfig `mapstructure:"definitions" validate:"dive"`
}

// TableConfig describes one generated table.
type TableConfig struct {
	Name    string   `mapstructure:"name" validate:"required"`
	Caption string   `mapstructure:"caption"`
	Label   string   `mapstructure:"label"`
	Columns []string `mapstructure:"columns" validate:"min=1"`
	Layout  string   `mapstructure:"layout" validate:"oneof=table longtable"`
}

// SunburstConfig holds sunburst chart configuration.
type SunburstConfig struct {
	// Input is the reviewed-papers CSV or workbook.
	Input string `mapstructure:"input" validate:"required"`
	// Sheet is the worksheet for workbook inputs.
	Sheet string `mapstructure:"sheet"`
	// Output is the chart file; the extension picks the format (.svg, .json).
	Output string `mapstructure:"output" validate:"required"`
	// MaxDepth keeps papers whose "#" is at most this value.
	MaxDepth int `mapstructure:"max_depth" validate:"gte=1"`
	// Width and Height size the SVG in pixels.
	Width  int `mapstructure:"width" validate:"gte=200"`
	Height int `mapstructure:"height" validate:"gte=200"`
	// Title is drawn above the chart.
	Title string `mapstructure:"title"`
	// Palette lists category colours, assigned in order and reused cyclically.
	Palette []string `mapstructure:"palette" validate:"min=1,dive,hexcolor"`
}

// VerifyConfig holds claim verification configuration.
type VerifyConfig struct {
	// Input is the reviewed-papers workbook or CSV.
	Input string `mapstructure:"input" validate:"required"`
	// Sheet is the worksheet for workbook inputs.
	Sheet string `mapstructure:"sheet"`
	// Bibliography is matched against the sheet titles.
	Bibliography string `mapstructure:"bibliography" validate:"required"`
	// Output is the Markdown report.
	Output string `mapstructure:"output" validate:"required"`
	// Title is the report heading.
	Title string `mapstructure:"title"`
	// MatchThreshold is the minimum score for a title match.
	MatchThreshold float64 `mapstructure:"match_threshold" validate:"gt=0,lte=2"`
	// YearBonus is added to the score when the publication years agree.
	YearBonus float64 `mapstructure:"year_bonus" validate:"gte=0,lte=1"`
	// Claims are the figures stated in the draft.
	Claims verify.Claims `mapstructure:"claims"`
}

// Load loads configuration from defaults, an optional YAML file and
// environment variables, then applies overrides (typically command-line
// flags, keyed by dotted config path). An empty configFile searches for
// slr.yaml in the working directory, ./config and $HOME/.config/slr.
func Load(configFile string, overrides map[string]any) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("slr")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "slr"))
		}

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found is OK, we'll use env vars and defaults
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "slr")
	v.SetDefault("metrics.textfile", "")

	// Bibliography defaults
	v.SetDefault("bibliography.path", "references/bibliography.bib")
	v.SetDefault("bibliography.output", "")
	v.SetDefault("bibliography.near_duplicates", false)
	v.SetDefault("bibliography.title_threshold", 0.9)
	v.SetDefault("bibliography.author_threshold", 0.5)

	// Table defaults
	v.SetDefault("tables.input", "data/SLR - SLR-Deep.csv")
	v.SetDefault("tables.sheet", "")
	v.SetDefault("tables.bibliography", "references/bibliography.bib")
	v.SetDefault("tables.output", "sections/generated_tables.tex")
	v.SetDefault("tables.preset", latex.PresetLongtable)
	v.SetDefault("tables.max_rows", latex.DefaultMaxRows)

	// Sunburst defaults
	v.SetDefault("sunburst.input", "SLR - SLR-Deep.csv")
	v.SetDefault("sunburst.sheet", "")
	v.SetDefault("sunburst.output", "sunburst_chart.svg")
	v.SetDefault("sunburst.max_depth", sunburst.DefaultMaxDepth)
	v.SetDefault("sunburst.width", 800)
	v.SetDefault("sunburst.height", 800)
	v.SetDefault("sunburst.title", "")
	v.SetDefault("sunburst.palette", sunburst.DefaultPalette)

	// Verification defaults
	claims := verify.DefaultClaims()
	v.SetDefault("verify.input", "SLR.xlsx")
	v.SetDefault("verify.sheet", "SLR-Deep")
	v.SetDefault("verify.bibliography", "references/SLR.bib")
	v.SetDefault("verify.output", "rq1_verification_report.md")
	v.SetDefault("verify.title", "RQ1 Claims Verification Report")
	v.SetDefault("verify.match_threshold", verify.DefaultMatchThreshold)
	v.SetDefault("verify.year_bonus", verify.DefaultYearBonus)
	v.SetDefault("verify.claims.document", claims.Document)
	v.SetDefault("verify.claims.trends", claims.Trends)
	v.SetDefault("verify.claims.total_papers", claims.TotalPapers)
	v.SetDefault("verify.claims.models", claims.Models)
	v.SetDefault("verify.claims.venues", claims.Venues)
	v.SetDefault("verify.claims.tolerance", claims.Tolerance)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	// Validate table definitions against the column mapping
	preset, err := c.Tables.Resolve()
	if err != nil {
		return err
	}
	g := &latex.Generator{Columns: preset.Columns}
	for _, t := range preset.Tables {
		if err := g.Validate(t); err != nil {
			return err
		}
	}

	// Validate claims
	if c.Verify.Claims.Tolerance < 0 {
		return fmt.Errorf("claims tolerance must not be negative")
	}
	for _, p := range verify.Periods {
		if _, ok := c.Verify.Claims.Trends[p.Name]; !ok {
			return fmt.Errorf("claims trends missing period %q", p.Name)
		}
	}

	return nil
}

// Resolve merges the preset with the configured column and table overrides.
func (c *TablesConfig) Resolve() (latex.Preset, error) {
	preset, ok := latex.PresetNamed(c.Preset)
	if !ok {
		return latex.Preset{}, fmt.Errorf("unknown table preset %q (want one of %s)", c.Preset, strings.Join(latex.PresetNames(), ", "))
	}

	if len(c.Columns) > 0 {
		preset.Columns = make(latex.ColumnMap, len(c.Columns))
		for name, idx := range c.Columns {
			preset.Columns[name] = idx
		}
	}

	if len(c.Definitions) > 0 {
		preset.Tables = make([]latex.Table, len(c.Definitions))
		for i, d := range c.Definitions {
			preset.Tables[i] = latex.Table{
				Name:    d.Name,
				Caption: d.Caption,
				Label:   d.Label,
				Columns: d.Columns,
				Layout:  latex.Layout(d.Layout),
			}
		}
	}
	return preset, nil
}
