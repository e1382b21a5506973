package sunburst

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// SVGOptions sizes the rendered chart.
type SVGOptions struct {
	Width  int
	Height int
	// Title is drawn above the chart when set.
	Title string
}

// Margins follow the plotly layout: 50px top and bottom, none on the sides.
const (
	marginTop    = 50
	marginBottom = 50

	defaultSize = 800

	categoryFontSize = 14
	paperFontSize    = 10
	titleFontSize    = 24
)

// WriteSVG draws the chart as two rings: categories inside, papers outside.
// Every paper has weight 1 and a category spans the sum of its papers.
func WriteSVG(w io.Writer, c *Chart, opts SVGOptions) error {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = defaultSize
	}
	if height <= 0 {
		height = defaultSize
	}

	cx := float64(width) / 2
	cy := float64(marginTop) + float64(height-marginTop-marginBottom)/2
	outer := math.Min(float64(width), float64(height-marginTop-marginBottom)) / 2 * 0.95
	inner := outer / 2

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")
	if opts.Title != "" {
		canvas.Text(width/2, marginTop-15, opts.Title,
			fmt.Sprintf("text-anchor:middle;font-family:Helvetica;font-size:%dpx;fill:black", titleFontSize))
	}

	total := c.Papers()
	if total > 0 {
		step := 2 * math.Pi / float64(total)
		angle := 0.0
		canvas.Gstyle("stroke:white;stroke-width:1")
		for _, n := range c.Nodes {
			if !n.IsRoot() {
				continue
			}
			catStart := angle
			catEnd := catStart + float64(n.Leaves)*step
			canvas.Path(sector(cx, cy, 0, inner, catStart, catEnd), "fill:"+n.Color)
			label(canvas, cx, cy, inner/2, (catStart+catEnd)/2, n.Label, categoryFontSize, n.Leaves == total)

			for _, leaf := range c.children(n.ID) {
				end := angle + step
				canvas.Path(sector(cx, cy, inner, outer, angle, end), "fill:"+leaf.Color+";fill-opacity:0.8")
				label(canvas, cx, cy, (inner+outer)/2, (angle+end)/2, leaf.Label, paperFontSize, false)
				angle = end
			}
		}
		canvas.Gend()
	}
	canvas.End()
	return ew.err
}

func (c *Chart) children(id string) []Node {
	var out []Node
	for _, n := range c.Nodes {
		if n.Parent == id {
			out = append(out, n)
		}
	}
	return out
}

// point converts a clockwise angle measured from twelve o'clock.
func point(cx, cy, r, a float64) (float64, float64) {
	return cx + r*math.Sin(a), cy - r*math.Cos(a)
}

// sector returns the path of the ring segment between radii r0 and r1 and
// angles a0 and a1. Full circles are split in two because a single arc
// cannot end where it starts.
func sector(cx, cy, r0, r1, a0, a1 float64) string {
	if a1-a0 >= 2*math.Pi-1e-9 {
		mid := a0 + math.Pi
		return sector(cx, cy, r0, r1, a0, mid) + " " + sector(cx, cy, r0, r1, mid, a1)
	}

	large := 0
	if a1-a0 > math.Pi {
		large = 1
	}
	x0, y0 := point(cx, cy, r1, a0)
	x1, y1 := point(cx, cy, r1, a1)

	var sb strings.Builder
	fmt.Fprintf(&sb, "M%.2f,%.2f A%.2f,%.2f 0 %d 1 %.2f,%.2f", x0, y0, r1, r1, large, x1, y1)
	if r0 <= 0 {
		fmt.Fprintf(&sb, " L%.2f,%.2f Z", cx, cy)
		return sb.String()
	}
	x2, y2 := point(cx, cy, r0, a1)
	x3, y3 := point(cx, cy, r0, a0)
	fmt.Fprintf(&sb, " L%.2f,%.2f A%.2f,%.2f 0 %d 0 %.2f,%.2f Z", x2, y2, r0, r0, large, x3, y3)
	return sb.String()
}

// label writes text centred on the segment, rotated to read along the
// radius. Text on the left half is flipped so it is never upside down.
func label(canvas *svg.SVG, cx, cy, r, a float64, text string, size int, centred bool) {
	style := fmt.Sprintf("text-anchor:middle;dominant-baseline:middle;font-family:Helvetica;font-size:%dpx;fill:black;stroke:none", size)
	if centred {
		canvas.Text(int(math.Round(cx)), int(math.Round(cy)), text, style)
		return
	}

	x, y := point(cx, cy, r, a)
	deg := a*180/math.Pi - 90
	if a > math.Pi {
		deg += 180
	}
	canvas.TranslateRotate(int(math.Round(x)), int(math.Round(y)), deg)
	canvas.Text(0, 0, text, style)
	canvas.Gend()
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
