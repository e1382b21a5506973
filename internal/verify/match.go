package verify

import (
	"github.com/helixir/slr-toolkit/internal/bib"
	"github.com/helixir/slr-toolkit/internal/domain"
)

// Matching defaults.
const (
	DefaultMatchThreshold = 0.7
	DefaultYearBonus      = 0.1
)

// Match links a sheet row to a bibliography entry.
type Match struct {
	Key   string
	Score float64
	Entry bib.Metadata
}

// Unmatched is a titled row whose best candidate scored below the threshold.
type Unmatched struct {
	Paper     domain.Paper
	BestKey   string
	BestScore float64
}

// Matcher finds the bibliography entry for each paper by fuzzy title
// similarity, with a bonus when the publication years agree.
type Matcher struct {
	Entries   []bib.Metadata
	Threshold float64
	YearBonus float64
}

// NewMatcher returns a Matcher over the index with the default scoring.
func NewMatcher(ix *bib.Index) *Matcher {
	return &Matcher{
		Entries:   ix.Entries(),
		Threshold: DefaultMatchThreshold,
		YearBonus: DefaultYearBonus,
	}
}

// Best returns the highest scoring entry for p. Ties keep the earlier entry.
func (m *Matcher) Best(p domain.Paper) (bib.Metadata, float64, bool) {
	year := p.YearString()

	var best bib.Metadata
	bestScore, found := 0.0, false
	for _, e := range m.Entries {
		score := bib.TitleSimilarity(p.Title, e.Title)
		if year != "" && year == e.Year {
			score += m.YearBonus
		}
		if score > bestScore {
			best, bestScore, found = e, score, true
		}
	}
	return best, bestScore, found
}

// MatchAll matches every titled paper. The returned map is keyed by the
// paper's position in papers.
func (m *Matcher) MatchAll(papers []domain.Paper) (map[int]Match, []Unmatched) {
	matches := make(map[int]Match)
	var unmatched []Unmatched
	for i, p := range papers {
		if !p.HasTitle() {
			continue
		}
		e, score, ok := m.Best(p)
		if ok && score >= m.Threshold {
			matches[i] = Match{Key: e.Key, Score: score, Entry: e}
			continue
		}
		unmatched = append(unmatched, Unmatched{Paper: p, BestKey: e.Key, BestScore: score})
	}
	return matches, unmatched
}
