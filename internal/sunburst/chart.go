// Package sunburst turns the reviewed-papers table into a two-level
// category → paper hierarchy and renders it as SVG or as a plotly figure.
package sunburst

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/helixir/slr-toolkit/internal/domain"
	"github.com/helixir/slr-toolkit/internal/sheet"
)

// DefaultPalette is assigned to categories in order of first appearance.
var DefaultPalette = []string{
	"#2E86AB",
	"#F6C85F",
	"#6B5B95",
	"#FF6F61",
	"#88B04B",
	"#955251",
	"#009B77",
	"#DD4124",
	"#D65076",
	"#45B8AC",
}

const (
	// DefaultMaxDepth keeps papers numbered up to and including 18.
	DefaultMaxDepth = 18
	// Missing labels are rendered as N/A.
	missingLabel = "N/A"

	maxTitleRunes  = 20
	keptTitleRunes = 17
)

// Options tune Build.
type Options struct {
	// MaxDepth drops papers whose "#" exceeds it. Zero means DefaultMaxDepth.
	MaxDepth int
	// Palette overrides DefaultPalette when non-empty.
	Palette []string
}

// Node is one chart segment. Roots have an empty Parent; a paper's Parent is
// its category's ID.
type Node struct {
	ID     string
	Label  string
	Parent string
	Color  string
	// Leaves is the number of papers below a category, 1 for a paper.
	Leaves int
}

// IsRoot reports whether n is a category.
func (n Node) IsRoot() bool { return n.Parent == "" }

// Chart is the flattened hierarchy: every category precedes its papers.
type Chart struct {
	Nodes []Node
}

// Categories returns the root nodes in order.
func (c *Chart) Categories() []Node {
	var roots []Node
	for _, n := range c.Nodes {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}

// Papers returns the leaf count.
func (c *Chart) Papers() int {
	return len(c.Nodes) - len(c.Categories())
}

// FromTable checks the required columns and builds the chart from the rows.
func FromTable(t *sheet.Table, opts Options) (*Chart, error) {
	if err := t.Require(domain.ColumnNumber, domain.ColumnTitle, domain.ColumnCategory); err != nil {
		return nil, err
	}
	return Build(t.Papers(), opts), nil
}

// Build groups papers under their categories. Papers without a finite numeric
// "#" or numbered above MaxDepth are dropped.
func Build(papers []domain.Paper, opts Options) *Chart {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	palette := opts.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}

	chart := &Chart{}
	rootIdx := make(map[string]int)
	for _, p := range papers {
		num, err := strconv.ParseFloat(strings.TrimSpace(p.Number), 64)
		if err != nil || math.IsNaN(num) || math.IsInf(num, 0) || num > float64(maxDepth) {
			continue
		}

		cat := orMissing(p.Category)
		ri, ok := rootIdx[cat]
		if !ok {
			ri = len(chart.Nodes)
			rootIdx[cat] = ri
			chart.Nodes = append(chart.Nodes, Node{
				ID:    categoryID(cat),
				Label: cat,
				Color: palette[(len(rootIdx)-1)%len(palette)],
			})
		}
		chart.Nodes[ri].Leaves++

		chart.Nodes = append(chart.Nodes, Node{
			ID:     "row:" + strconv.Itoa(p.Row),
			Label:  DisplayTitle(orMissing(p.Title)),
			Parent: categoryID(cat),
			Color:  chart.Nodes[ri].Color,
			Leaves: 1,
		})
	}
	return chart
}

// Category and paper IDs carry distinct prefixes so no category name can
// collide with a paper.
func categoryID(cat string) string { return "category:" + cat }

// DisplayTitle shortens titles longer than 20 runes to 17 runes plus "...".
func DisplayTitle(title string) string {
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	return string([]rune(title)[:keptTitleRunes]) + "..."
}

func orMissing(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return missingLabel
	}
	return s
}
