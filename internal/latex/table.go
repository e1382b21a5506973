package latex

import (
	"fmt"
	"io"
	"strings"

	"github.com/helixir/slr-toolkit/internal/domain"
	"github.com/helixir/slr-toolkit/internal/sheet"
)

// Layout selects the LaTeX environment a table is rendered in.
type Layout string

const (
	// LayoutTable is a table* float with a resized fixed-width tabular.
	LayoutTable Layout = "table"
	// LayoutLongtable is a page-breaking longtable with booktabs rules.
	LayoutLongtable Layout = "longtable"
)

// Logical columns every mapping must define.
const (
	ColumnNumber = "number"
	ColumnTitle  = "title"
)

// DefaultMaxRows is the number of data rows considered per table.
const DefaultMaxRows = 18

// Table describes one generated table.
type Table struct {
	Name    string
	Caption string
	Label   string
	Columns []string
	Layout  Layout
}

// ColumnMap maps logical column names to 0-based sheet column positions.
// Names compare case-insensitively.
type ColumnMap map[string]int

// Index returns the position mapped to name.
func (m ColumnMap) Index(name string) (int, bool) {
	if i, ok := m[name]; ok {
		return i, true
	}
	for k, i := range m {
		if strings.EqualFold(k, name) {
			return i, true
		}
	}
	return 0, false
}

// CiteFinder resolves a paper title to a citation key.
type CiteFinder interface {
	CiteForTitle(title string) (string, bool)
}

// Generator renders tables from positional sheet rows.
type Generator struct {
	Columns ColumnMap
	// MaxRows limits the data rows considered per table. Zero means DefaultMaxRows.
	MaxRows int
	// Cites is optional; without it papers are never cited.
	Cites CiteFinder
}

// Validate checks that every column t needs has a mapping.
func (g *Generator) Validate(t Table) error {
	if len(t.Columns) == 0 {
		return domain.NewValidationError("tables."+t.Name+".columns", "at least one column is required")
	}
	for _, c := range append([]string{ColumnNumber, ColumnTitle}, t.Columns...) {
		if _, ok := g.Columns.Index(c); !ok {
			return domain.NewValidationError("tables."+t.Name+".columns", fmt.Sprintf("column %q has no mapping", c))
		}
	}
	switch t.Layout {
	case LayoutTable, LayoutLongtable:
		return nil
	default:
		return domain.NewValidationError("tables."+t.Name+".layout", fmt.Sprintf("unknown layout %q", t.Layout))
	}
}

// RenderAll writes every table in order and returns the number of data rows
// written across all of them.
func (g *Generator) RenderAll(w io.Writer, tables []Table, rows [][]string) (int, error) {
	total := 0
	for _, t := range tables {
		n, err := g.Render(w, t, rows)
		if err != nil {
			return total, fmt.Errorf("table %s: %w", t.Name, err)
		}
		total += n
	}
	return total, nil
}

// Render writes one table and returns the number of data rows written.
func (g *Generator) Render(w io.Writer, t Table, rows [][]string) (int, error) {
	if err := g.Validate(t); err != nil {
		return 0, err
	}

	var sb strings.Builder
	var n int
	if t.Layout == LayoutLongtable {
		n = g.longtable(&sb, t, rows)
	} else {
		n = g.floatTable(&sb, t, rows)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *Generator) limit(rows [][]string) [][]string {
	n := g.MaxRows
	if n <= 0 {
		n = DefaultMaxRows
	}
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// cell returns the trimmed value of a logical column, or NotSpecified.
func (g *Generator) cell(row []string, name string) string {
	idx, ok := g.Columns.Index(name)
	if !ok {
		return domain.NotSpecified
	}
	if v := strings.TrimSpace(sheet.Cell(row, idx)); v != "" {
		return v
	}
	return domain.NotSpecified
}

func (g *Generator) cite(title string) (string, bool) {
	if g.Cites == nil {
		return "", false
	}
	return g.Cites.CiteForTitle(title)
}

func headers(t Table) []string {
	h := make([]string, 0, len(t.Columns)+1)
	h = append(h, "Paper")
	for _, c := range t.Columns {
		h = append(h, Header(c))
	}
	return h
}

const paperColumnWidth = "3cm"

func (g *Generator) floatTable(sb *strings.Builder, t Table, rows [][]string) int {
	widths := make([]string, len(t.Columns))
	for i := range widths {
		widths[i] = "p{" + paperColumnWidth + "}"
	}

	fmt.Fprintf(sb, "\\begin{table*}[htbp]\n\\centering\n\\caption{%s}\n\\label{tab:%s}\n", t.Caption, t.Label)
	sb.WriteString("\\resizebox{0.8\\textwidth}{!}{\n\\fontsize{3}{5}\\selectfont\n")
	fmt.Fprintf(sb, "\\begin{tabular}{|c|%s|}\n\\hline\n", strings.Join(widths, "|"))
	sb.WriteString(strings.Join(headers(t), " & ") + " \\\\\n\\hline\n")

	n := 0
	for _, row := range g.limit(rows) {
		id := strings.TrimSpace(sheet.Cell(row, g.mustIndex(ColumnNumber)))
		if key, ok := g.cite(strings.TrimSpace(sheet.Cell(row, g.mustIndex(ColumnTitle)))); ok {
			id = `\cite{` + key + `}`
		}

		cells := []string{id}
		for _, c := range t.Columns {
			cells = append(cells, Escape(g.cell(row, c)))
		}
		sb.WriteString(strings.Join(cells, " & ") + " \\\\\n\\hline\n")
		n++
	}

	sb.WriteString("\\end{tabular}\n}\n\\end{table*}\n\n")
	return n
}

// LongtableFormat returns the column specification for n columns,
// the paper column included.
func LongtableFormat(n int) string {
	switch n {
	case 2:
		return `p{0.3\linewidth}p{0.6\linewidth}`
	case 3:
		return `p{0.25\linewidth}p{0.35\linewidth}p{0.35\linewidth}`
	case 4:
		return `p{0.2\linewidth}p{0.25\linewidth}p{0.25\linewidth}p{0.25\linewidth}`
	case 7:
		return `p{0.12\linewidth}p{0.12\linewidth}p{0.12\linewidth}p{0.18\linewidth}p{0.12\linewidth}p{0.12\linewidth}p{0.12\linewidth}`
	}
	col := fmt.Sprintf(`p{%.2f\linewidth}`, 0.9/float64(n))
	return strings.Repeat(col, n)
}

const (
	maxTitleRunes  = 50
	keptTitleRunes = 47
)

func (g *Generator) longtable(sb *strings.Builder, t Table, rows [][]string) int {
	cols := len(t.Columns) + 1
	head := strings.Join(headers(t), " & ") + " \\\\\n"

	sb.WriteString("\\renewcommand{\\arraystretch}{1.3}\n")
	fmt.Fprintf(sb, "\\begin{longtable}{%s}\n", LongtableFormat(cols))
	fmt.Fprintf(sb, "\\caption{%s} \\\\\n\\toprule\n\n", t.Caption)
	sb.WriteString(head + "\\midrule\n\n\\endfirsthead\n\n")
	fmt.Fprintf(sb, "\\multicolumn{%d}{c}{\\bfseries \\tablename\\ \\thetable{} -- continued from previous page} \\\\\n", cols)
	sb.WriteString("\\toprule\n" + head + "\\midrule\n\n\\endhead\n\n")
	fmt.Fprintf(sb, "\\midrule\n\\multicolumn{%d}{r}{Continued on next page} \\\\\n\\endfoot\n\n", cols)
	sb.WriteString("\\bottomrule\n\\endlastfoot\n\n")

	n := 0
	for _, row := range g.limit(rows) {
		if strings.EqualFold(strings.TrimSpace(sheet.Cell(row, g.mustIndex(ColumnNumber))), ColumnNumber) {
			continue
		}
		title := strings.TrimSpace(sheet.Cell(row, g.mustIndex(ColumnTitle)))
		if title == "" || title == domain.NotSpecified {
			continue
		}

		// Cut before escaping so an escape sequence is never split.
		paper := Clean(Truncate(title, maxTitleRunes, keptTitleRunes))
		if key, ok := g.cite(title); ok {
			paper += ` \cite{` + key + `}`
		}

		cells := []string{paper}
		for _, c := range t.Columns {
			cells = append(cells, Clean(g.cell(row, c)))
		}
		sb.WriteString(strings.Join(cells, " & ") + " \\\\\n\n")
		n++
	}

	sb.WriteString("\\end{longtable}\n\n")
	return n
}

// mustIndex is only called for columns Validate has checked.
func (g *Generator) mustIndex(name string) int {
	i, _ := g.Columns.Index(name)
	return i
}
