package sunburst

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/helixir/slr-toolkit/internal/domain"
)

// Figure is a plotly figure holding one sunburst trace.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a plotly sunburst trace.
type Trace struct {
	Type            string   `json:"type"`
	IDs             []string `json:"ids"`
	Labels          []string `json:"labels"`
	Parents         []string `json:"parents"`
	Marker          Marker   `json:"marker"`
	BranchValues    string   `json:"branchvalues"`
	TextInfo        string   `json:"textinfo"`
	InsideTextFont  Font     `json:"insidetextfont"`
	OutsideTextFont Font     `json:"outsidetextfont"`
}

// Marker carries the segment colours.
type Marker struct {
	Colors []string `json:"colors"`
}

// Font is a plotly font setting.
type Font struct {
	Size   int    `json:"size"`
	Color  string `json:"color"`
	Family string `json:"family,omitempty"`
}

// Layout is the subset of the plotly layout the chart sets.
type Layout struct {
	Title        *Title `json:"title,omitempty"`
	Margin       Margin `json:"margin"`
	PaperBGColor string `json:"paper_bgcolor"`
}

// Title is the plotly layout title.
type Title struct {
	Text string `json:"text,omitempty"`
	Font Font   `json:"font"`
}

// Margin is the plotly layout margin.
type Margin struct {
	T int `json:"t"`
	L int `json:"l"`
	R int `json:"r"`
	B int `json:"b"`
}

// NewFigure converts the chart into plotly's data model.
func NewFigure(c *Chart, title string) Figure {
	tr := Trace{
		Type:            "sunburst",
		IDs:             make([]string, len(c.Nodes)),
		Labels:          make([]string, len(c.Nodes)),
		Parents:         make([]string, len(c.Nodes)),
		Marker:          Marker{Colors: make([]string, len(c.Nodes))},
		BranchValues:    "total",
		TextInfo:        "label+text",
		InsideTextFont:  Font{Size: categoryFontSize, Color: "black"},
		OutsideTextFont: Font{Size: paperFontSize, Color: "black"},
	}
	for i, n := range c.Nodes {
		tr.IDs[i] = n.ID
		tr.Labels[i] = n.Label
		tr.Parents[i] = n.Parent
		tr.Marker.Colors[i] = n.Color
	}

	return Figure{
		Data: []Trace{tr},
		Layout: Layout{
			Title: &Title{
				Text: title,
				Font: Font{Size: titleFontSize, Color: "black", Family: "Helvetica"},
			},
			Margin:       Margin{T: marginTop, L: 0, R: 0, B: marginBottom},
			PaperBGColor: "white",
		},
	}
}

// WriteJSON encodes the plotly figure.
func WriteJSON(w io.Writer, c *Chart, title string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewFigure(c, title))
}

// Format is an output encoding.
type Format string

// Supported output formats.
const (
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		return FormatSVG, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%s: %w: %q (use .svg or .json)", path, domain.ErrUnsupportedFormat, ext)
	}
}

// Write renders the chart in the given format.
func Write(w io.Writer, c *Chart, format Format, opts SVGOptions) error {
	switch format {
	case FormatSVG:
		return WriteSVG(w, c, opts)
	case FormatJSON:
		return WriteJSON(w, c, opts.Title)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

// WriteFile renders the chart to path in the format its extension names.
func WriteFile(path string, c *Chart, opts SVGOptions) (err error) {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return Write(f, c, format, opts)
}
