package verify

import (
	"github.com/helixir/slr-toolkit/internal/domain"
)

// PaperRef is a paper as listed in the report.
type PaperRef struct {
	Title string
	Year  int
	LLM   string
	Venue string
	Type  string
	// Citation is the matched key, empty when the paper is unmatched.
	Citation string
}

// Result holds everything the report shows.
type Result struct {
	// RunID identifies the run that produced the result.
	RunID     string
	Total     int
	Matched   int
	Unmatched []Unmatched

	Trends map[string][]PaperRef
	Models map[ModelType][]PaperRef
	Venues map[VenueType][]PaperRef
}

// Analyze buckets papers by period, model type and venue type. Rows without
// a numeric year are left out of the trends; model and venue shares are
// computed over every row.
func Analyze(papers []domain.Paper, matches map[int]Match, unmatched []Unmatched) *Result {
	r := &Result{
		Total:     len(papers),
		Matched:   len(matches),
		Unmatched: unmatched,
		Trends:    make(map[string][]PaperRef),
		Models:    make(map[ModelType][]PaperRef),
		Venues:    make(map[VenueType][]PaperRef),
	}

	for i, p := range papers {
		m, ok := matches[i]
		ref := PaperRef{Title: p.Title, LLM: p.LLM}
		if ok {
			ref.Citation = m.Key
			ref.Venue = m.Entry.Venue
			ref.Type = m.Entry.Type
		}

		if year, ok := p.YearInt(); ok {
			ref.Year = year
			if period, ok := PeriodOf(year); ok {
				r.Trends[period.Name] = append(r.Trends[period.Name], ref)
			}
		}

		mt := ClassifyModel(p.LLM)
		r.Models[mt] = append(r.Models[mt], ref)

		vt := ClassifyVenue(ref.Venue, ref.Type)
		r.Venues[vt] = append(r.Venues[vt], ref)
	}
	return r
}

// TrendTotal is the number of papers that fall in any period.
func (r *Result) TrendTotal() int {
	n := 0
	for _, p := range Periods {
		n += len(r.Trends[p.Name])
	}
	return n
}

// ModelShare is the percentage of rows classified as t.
func (r *Result) ModelShare(t ModelType) float64 {
	n := 0
	for _, refs := range r.Models {
		n += len(refs)
	}
	return percent(len(r.Models[t]), n)
}

// VenueShare is the percentage of rows published in venues of type t.
func (r *Result) VenueShare(t VenueType) float64 {
	n := 0
	for _, refs := range r.Venues {
		n += len(refs)
	}
	return percent(len(r.Venues[t]), n)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
