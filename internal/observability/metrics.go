package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcome label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics contains the Prometheus metrics of one tool run, grouped by
// command: bibliography cleaning, table generation, chart building and claim
// verification. Every metric is registered on a private registry so that a
// run's figures can be written out as a node exporter textfile without
// picking up process-wide collectors.
type Metrics struct {
	registry *prometheus.Registry

	// RunsTotal counts command invocations, labeled by command and status.
	RunsTotal *prometheus.CounterVec

	// RunDuration observes command duration in seconds, labeled by command.
	RunDuration *prometheus.HistogramVec

	// EntriesParsed counts BibTeX entries read from the input file.
	EntriesParsed prometheus.Counter

	// DuplicatesRemoved counts identical duplicate entries dropped.
	DuplicatesRemoved prometheus.Counter

	// DuplicateGroups counts keys with identical duplicate entries.
	DuplicateGroups prometheus.Counter

	// KeyConflicts counts keys reused by entries with different content.
	KeyConflicts prometheus.Counter

	// NearDuplicates counts probable duplicates filed under different keys.
	NearDuplicates prometheus.Counter

	// PapersLoaded counts reviewed-paper rows read from a sheet.
	PapersLoaded prometheus.Counter

	// TableRows counts rows rendered into LaTeX tables, labeled by table.
	TableRows *prometheus.CounterVec

	// SunburstNodes counts chart nodes, labeled by kind (category, paper).
	SunburstNodes *prometheus.CounterVec

	// PapersMatched counts sheet rows matched to a bibliography entry.
	PapersMatched prometheus.Counter

	// PapersUnmatched counts sheet rows with no bibliography match.
	PapersUnmatched prometheus.Counter

	// Discrepancies counts claims whose computed figure differs from the draft.
	Discrepancies prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Runs
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of command runs",
		}, []string{"command", "status"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of command runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"command"}),

		// Bibliography
		EntriesParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bibliography",
			Name:      "entries_parsed_total",
			Help:      "Total number of BibTeX entries parsed",
		}),
		DuplicatesRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bibliography",
			Name:      "duplicates_removed_total",
			Help:      "Total number of identical duplicate entries removed",
		}),
		DuplicateGroups: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bibliography",
			Name:      "duplicate_groups_total",
			Help:      "Total number of keys with identical duplicate entries",
		}),
		KeyConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bibliography",
			Name:      "key_conflicts_total",
			Help:      "Total number of keys shared by entries with different content",
		}),
		NearDuplicates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bibliography",
			Name:      "near_duplicates_total",
			Help:      "Total number of probable duplicates under different keys",
		}),

		// Sheets
		PapersLoaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sheet",
			Name:      "papers_loaded_total",
			Help:      "Total number of reviewed-paper rows loaded",
		}),

		// Outputs
		TableRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tables",
			Name:      "rows_total",
			Help:      "Total number of rows rendered into LaTeX tables",
		}, []string{"table"}),
		SunburstNodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sunburst",
			Name:      "nodes_total",
			Help:      "Total number of sunburst chart nodes",
		}, []string{"kind"}),

		// Verification
		PapersMatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "papers_matched_total",
			Help:      "Total number of papers matched to a bibliography entry",
		}),
		PapersUnmatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "papers_unmatched_total",
			Help:      "Total number of papers without a bibliography match",
		}),
		Discrepancies: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "discrepancies_total",
			Help:      "Total number of claims that disagree with the data",
		}),
	}
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRun records a finished command run.
func (m *Metrics) RecordRun(command string, durationSeconds float64, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.RunsTotal.WithLabelValues(command, status).Inc()
	m.RunDuration.WithLabelValues(command).Observe(durationSeconds)
}

// RecordClean records the outcome of a bibliography cleaning pass.
func (m *Metrics) RecordClean(parsed, removed, groups, conflicts, near int) {
	m.EntriesParsed.Add(float64(parsed))
	m.DuplicatesRemoved.Add(float64(removed))
	m.DuplicateGroups.Add(float64(groups))
	m.KeyConflicts.Add(float64(conflicts))
	m.NearDuplicates.Add(float64(near))
}

// RecordPapersLoaded records rows read from a reviewed-papers sheet.
func (m *Metrics) RecordPapersLoaded(count int) {
	m.PapersLoaded.Add(float64(count))
}

// RecordTableRows records rows rendered into one table.
func (m *Metrics) RecordTableRows(table string, count int) {
	m.TableRows.WithLabelValues(table).Add(float64(count))
}

// RecordSunburst records the node counts of a built chart.
func (m *Metrics) RecordSunburst(categories, papers int) {
	m.SunburstNodes.WithLabelValues("category").Add(float64(categories))
	m.SunburstNodes.WithLabelValues("paper").Add(float64(papers))
}

// RecordVerification records the outcome of a claim verification run.
func (m *Metrics) RecordVerification(matched, unmatched, discrepancies int) {
	m.PapersMatched.Add(float64(matched))
	m.PapersUnmatched.Add(float64(unmatched))
	m.Discrepancies.Add(float64(discrepancies))
}

// WriteTextfile writes every run metric to path in the Prometheus text
// exposition format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
