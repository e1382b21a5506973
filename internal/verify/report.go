package verify

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	check = "✓"
	cross = "✗"

	venueListLimit  = 10
	llmDescRunes    = 150
	llmDescKept     = 147
	llmSummaryRunes = 100
)

// ReportOptions parameterise WriteReport.
type ReportOptions struct {
	// Title is the top-level heading. Empty means "RQ1 Claims Verification Report".
	Title  string
	Claims Claims
}

// WriteReport renders the verification report as Markdown.
func WriteReport(w io.Writer, r *Result, opts ReportOptions) error {
	title := opts.Title
	if title == "" {
		title = "RQ1 Claims Verification Report"
	}
	c := opts.Claims

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)
	fmt.Fprintf(&b, "This report verifies all statistical claims in `%s`\n", c.Document)
	if r.RunID != "" {
		fmt.Fprintf(&b, "**Run ID:** %s\n", r.RunID)
	}
	fmt.Fprintf(&b, "**Total papers analyzed:** %d\n", r.Total)
	fmt.Fprintf(&b, "**Papers matched to BibTeX:** %d\n\n", r.Matched)

	writeTrends(&b, r, c)
	writeModels(&b, r, c)
	writeVenues(&b, r, c)
	writeSummary(&b, r, c)
	writeCitations(&b, r)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTrends(b *strings.Builder, r *Result, c Claims) {
	b.WriteString("## 1. Publication Trends by Year\n")
	b.WriteString("| Period | Claimed | Actual | Papers |\n")
	b.WriteString("|--------|---------|--------|--------|\n")
	for _, p := range Periods {
		claimed, actual := c.Trends[p.Name], len(r.Trends[p.Name])
		fmt.Fprintf(b, "| %s | %d | %d %s | %d |\n", p.Name, claimed, actual, mark(claimed == actual), actual)
	}
	total := r.TrendTotal()
	fmt.Fprintf(b, "| **Total** | %d | %d %s | %d |\n\n", c.TotalPapers, total, mark(c.TotalPapers == total), total)

	b.WriteString("### Papers by Year Period\n")
	for _, p := range Periods {
		refs := r.Trends[p.Name]
		if len(refs) == 0 {
			continue
		}
		fmt.Fprintf(b, "#### %s (%d papers)\n", p.Name, len(refs))
		for _, ref := range refs {
			fmt.Fprintf(b, "- %s (%d) %s\n", ref.Title, ref.Year, citation(ref))
		}
		b.WriteString("\n")
	}
}

func writeModels(b *strings.Builder, r *Result, c Claims) {
	b.WriteString("## 2. Model Usage Distribution\n")
	b.WriteString("| Model Type | Claimed % | Actual % | Count | Papers |\n")
	b.WriteString("|------------|-----------|----------|-------|--------|\n")
	for _, t := range ModelTypes {
		claimed, actual, count := c.Models[string(t)], r.ModelShare(t), len(r.Models[t])
		fmt.Fprintf(b, "| %s | %s%% | %.1f%% %s | %d | %d |\n",
			heading(string(t)), number(claimed), actual, mark(c.Within(claimed, actual)), count, count)
	}

	open := r.Models[ModelOpenWeight]
	b.WriteString("\n### Open-Weight Models (Papers) - Complete List with Citations\n")
	fmt.Fprintf(b, "**Total: %d papers using open-weight models**\n\n", len(open))
	for i, ref := range open {
		fmt.Fprintf(b, "%d. %s %s\n", i+1, ref.Title, citation(ref))
		desc := strings.TrimSpace(strings.ReplaceAll(ref.LLM, "\n", " "))
		if utf8.RuneCountInString(desc) > llmDescRunes {
			desc = string([]rune(desc)[:llmDescKept]) + "..."
		}
		fmt.Fprintf(b, "   - **LLM Used:** %s\n", desc)
	}

	for _, sec := range []struct {
		heading string
		t       ModelType
	}{
		{"Proprietary Models (Papers)", ModelProprietary},
		{"Custom/From-Scratch Models (Papers)", ModelCustom},
	} {
		fmt.Fprintf(b, "\n### %s\n", sec.heading)
		for _, ref := range r.Models[sec.t] {
			fmt.Fprintf(b, "- %s %s\n", ref.Title, citation(ref))
			fmt.Fprintf(b, "  - LLM: %s...\n", prefix(ref.LLM, llmSummaryRunes))
		}
	}
}

func writeVenues(b *strings.Builder, r *Result, c Claims) {
	b.WriteString("\n## 3. Publication Venues\n")
	b.WriteString("| Venue Type | Claimed % | Actual % | Count |\n")
	b.WriteString("|------------|-----------|----------|-------|\n")
	for _, t := range VenueTypes {
		claimed, actual := c.Venues[string(t)], r.VenueShare(t)
		fmt.Fprintf(b, "| %s | %s%% | %.1f%% %s | %d |\n",
			heading(string(t)), number(claimed), actual, mark(c.Within(claimed, actual)), len(r.Venues[t]))
	}

	b.WriteString("\n### Papers by Venue Type\n")
	for _, t := range VenueTypes {
		refs := r.Venues[t]
		if len(refs) == 0 {
			continue
		}
		fmt.Fprintf(b, "#### %s (%d papers)\n", heading(string(t)), len(refs))
		for _, ref := range refs[:min(len(refs), venueListLimit)] {
			fmt.Fprintf(b, "- %s %s\n", ref.Title, citation(ref))
		}
		if len(refs) > venueListLimit {
			fmt.Fprintf(b, "... and %d more\n", len(refs)-venueListLimit)
		}
		b.WriteString("\n")
	}
}

func writeSummary(b *strings.Builder, r *Result, c Claims) {
	total := r.TrendTotal()

	b.WriteString("\n## Summary\n")
	b.WriteString("### Key Findings\n")
	fmt.Fprintf(b, "- Total papers in dataset: %d\n", r.Total)
	fmt.Fprintf(b, "- Papers matched to BibTeX: %d\n", r.Matched)
	fmt.Fprintf(b, "- Publication trends: %d papers total (claimed: %d)\n", total, c.TotalPapers)
	fmt.Fprintf(b, "- Model usage: %d open-weight (%.1f%%), %d proprietary (%.1f%%), %d custom (%.1f%%)\n",
		len(r.Models[ModelOpenWeight]), r.ModelShare(ModelOpenWeight),
		len(r.Models[ModelProprietary]), r.ModelShare(ModelProprietary),
		len(r.Models[ModelCustom]), r.ModelShare(ModelCustom))
	fmt.Fprintf(b, "- Venue distribution: %d arXiv (%.1f%%), %d top-tier (%.1f%%), %d specialized (%.1f%%)\n",
		len(r.Venues[VenueArxiv]), r.VenueShare(VenueArxiv),
		len(r.Venues[VenueTopTier]), r.VenueShare(VenueTopTier),
		len(r.Venues[VenueSpecialized]), r.VenueShare(VenueSpecialized))

	b.WriteString("\n### Discrepancies with Claims\n")
	found := Discrepancies(r, c)
	if len(found) == 0 {
		b.WriteString("- No significant discrepancies found.\n")
	}
	for _, d := range found {
		fmt.Fprintf(b, "- %s\n", d)
	}
}

// Discrepancies lists the headline claims the data contradicts: the total
// paper count, the open-weight share and the arXiv share.
func Discrepancies(r *Result, c Claims) []string {
	var out []string
	if total := r.TrendTotal(); total != c.TotalPapers {
		out = append(out, fmt.Sprintf("Publication total: claimed %d, actual %d", c.TotalPapers, total))
	}
	if claimed, actual := c.Models[string(ModelOpenWeight)], r.ModelShare(ModelOpenWeight); exceeds(claimed, actual, c.Tolerance) {
		out = append(out, fmt.Sprintf("Open-weight models: claimed %s%%, actual %.1f%%", number(claimed), actual))
	}
	if claimed, actual := c.Venues[string(VenueArxiv)], r.VenueShare(VenueArxiv); exceeds(claimed, actual, c.Tolerance) {
		out = append(out, fmt.Sprintf("arXiv venues: claimed %s%%, actual %.1f%%", number(claimed), actual))
	}
	return out
}

func writeCitations(b *strings.Builder, r *Result) {
	b.WriteString("\n### Citation List for Open-Weight Models (for LaTeX)\n")
	var keys []string
	for _, ref := range r.Models[ModelOpenWeight] {
		if ref.Citation != "" {
			keys = append(keys, ref.Citation)
		}
	}
	if len(keys) == 0 {
		return
	}
	b.WriteString("```latex\n")
	b.WriteString(strings.Join(keys, ", "))
	b.WriteString("\n```\n")
	b.WriteString("\nOr in LaTeX format:\n")
	b.WriteString("```latex\n")
	b.WriteString(`\cite{` + strings.Join(keys, "}\n\\cite{") + "}\n")
	b.WriteString("```\n")
}

func citation(ref PaperRef) string {
	if ref.Citation == "" {
		return "(No citation)"
	}
	return `\cite{` + ref.Citation + `}`
}

func mark(ok bool) string {
	if ok {
		return check
	}
	return cross
}

// heading turns "open-weight" into "Open Weight".
func heading(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// number prints whole claims without a fractional part.
func number(f float64) string {
	return fmt.Sprintf("%g", f)
}

func exceeds(claimed, actual, tolerance float64) bool {
	d := claimed - actual
	if d < 0 {
		d = -d
	}
	return d > tolerance
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
