package verify

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/slr-toolkit/internal/bib"
	"github.com/helixir/slr-toolkit/internal/domain"
)

const testBib = `@article{rando2023passgpt,
  title = {{PassGPT}: Password Modeling and (Guided) Generation with Large Language Models},
  author = {Rando, Javier and Perez-Cruz, Fernando},
  journal = {arXiv preprint arXiv:2306.01545},
  year = {2023}
}

@inproceedings{deng2023fuzz,
  title = {Large Language Models Are Zero-Shot Fuzzers},
  author = {Deng, Yinlin},
  booktitle = {Proceedings of the 32nd ACM SIGSOFT ISSTA},
  year = {2023}
}

@inproceedings{hitaj2019passgan,
  title = {PassGAN: A Deep Learning Approach for Password Guessing},
  author = {Hitaj, Briland},
  booktitle = {Applied Cryptography and Network Security},
  year = {2019}
}`

func testPapers() []domain.Paper {
	return []domain.Paper{
		{Row: 1, Title: "PassGPT: Password Modeling and (Guided) Generation with Large Language Models", Year: "2023", LLM: "GPT-2"},
		{Row: 2, Title: "Large language models are zero-shot fuzzers", Year: "2023.0", LLM: "Codex (OpenAI davinci)"},
		{Row: 3, Title: "An unrelated survey of quantum annealing", Year: "2021", LLM: "LSTM"},
		{Row: 4, Title: "", Year: "2024", LLM: ""},
		{Row: 5, Title: "PassGAN: A Deep Learning Approach for Password Guessing", Year: "2019", LLM: "GAN"},
	}
}

func testIndex(t *testing.T) *bib.Index {
	t.Helper()
	ix := bib.BuildIndex(bib.ParseString(testBib))
	require.Equal(t, 3, ix.Len())
	return ix
}

func TestMatcher_MatchAll(t *testing.T) {
	m := NewMatcher(testIndex(t))
	matches, unmatched := m.MatchAll(testPapers())

	require.Len(t, matches, 3)
	assert.Equal(t, "rando2023passgpt", matches[0].Key)
	assert.InDelta(t, 1.1, matches[0].Score, 1e-9)
	assert.Equal(t, "deng2023fuzz", matches[1].Key)
	assert.InDelta(t, 1.1, matches[1].Score, 1e-9)
	assert.Equal(t, "hitaj2019passgan", matches[4].Key)

	require.Len(t, unmatched, 1)
	assert.Equal(t, 3, unmatched[0].Paper.Row)
	assert.Less(t, unmatched[0].BestScore, DefaultMatchThreshold)
}

func TestMatcher_YearBonusBreaksThreshold(t *testing.T) {
	m := &Matcher{
		Entries:   []bib.Metadata{{Key: "k", Title: "abcdefghij", Year: "2020"}},
		Threshold: 0.7,
		YearBonus: 0.1,
	}

	// "abcdefxxxx" shares six of ten characters: similarity 0.6.
	_, score, ok := m.Best(domain.Paper{Title: "abcdefxxxx", Year: "2020"})
	require.True(t, ok)
	assert.InDelta(t, 0.7, score, 1e-9)

	_, score, _ = m.Best(domain.Paper{Title: "abcdefxxxx", Year: "2021"})
	assert.InDelta(t, 0.6, score, 1e-9)
}

func TestMatcher_NoEntries(t *testing.T) {
	m := &Matcher{Threshold: DefaultMatchThreshold}
	matches, unmatched := m.MatchAll(testPapers())
	assert.Empty(t, matches)
	assert.Len(t, unmatched, 4)
	assert.Empty(t, unmatched[0].BestKey)
}

func TestAnalyze(t *testing.T) {
	papers := testPapers()
	matches, unmatched := NewMatcher(testIndex(t)).MatchAll(papers)
	r := Analyze(papers, matches, unmatched)

	assert.Equal(t, 5, r.Total)
	assert.Equal(t, 3, r.Matched)

	assert.Len(t, r.Trends["2023"], 2)
	assert.Len(t, r.Trends["2021-2022"], 1)
	assert.Len(t, r.Trends["2024-2025"], 1)
	assert.Empty(t, r.Trends["2020"])
	assert.Equal(t, 4, r.TrendTotal())
	assert.Equal(t, 2023, r.Trends["2023"][1].Year)

	assert.Len(t, r.Models[ModelOpenWeight], 1)
	assert.Len(t, r.Models[ModelProprietary], 1)
	assert.Len(t, r.Models[ModelCustom], 1)
	assert.Len(t, r.Models[ModelUnknown], 2)
	assert.InDelta(t, 20.0, r.ModelShare(ModelOpenWeight), 1e-9)

	require.Len(t, r.Venues[VenueArxiv], 1)
	assert.Equal(t, "rando2023passgpt", r.Venues[VenueArxiv][0].Citation)
	assert.Empty(t, r.Venues[VenueTopTier])
	assert.Len(t, r.Venues[VenueSpecialized], 4)
	assert.InDelta(t, 80.0, r.VenueShare(VenueSpecialized), 1e-9)
}

func TestResult_SharesOfEmpty(t *testing.T) {
	r := Analyze(nil, nil, nil)
	assert.Zero(t, r.ModelShare(ModelOpenWeight))
	assert.Zero(t, r.VenueShare(VenueArxiv))
	assert.Zero(t, r.TrendTotal())
}

func TestClaims_Within(t *testing.T) {
	c := DefaultClaims()
	assert.True(t, c.Within(80, 76))
	assert.False(t, c.Within(80, 75))
	assert.False(t, c.Within(12, 17))
}

func TestDiscrepancies(t *testing.T) {
	c := DefaultClaims()
	papers := testPapers()
	matches, unmatched := NewMatcher(testIndex(t)).MatchAll(papers)

	got := Discrepancies(Analyze(papers, matches, unmatched), c)
	assert.Equal(t, []string{
		"Publication total: claimed 26, actual 4",
		"Open-weight models: claimed 80%, actual 20.0%",
		"arXiv venues: claimed 60%, actual 20.0%",
	}, got)

	c.TotalPapers = 4
	c.Models[string(ModelOpenWeight)] = 25
	c.Venues[string(VenueArxiv)] = 15
	assert.Empty(t, Discrepancies(Analyze(papers, matches, unmatched), c))
}

func TestWriteReport(t *testing.T) {
	papers := testPapers()
	matches, unmatched := NewMatcher(testIndex(t)).MatchAll(papers)
	r := Analyze(papers, matches, unmatched)
	r.RunID = "run-1"

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, r, ReportOptions{Claims: DefaultClaims()}))
	out := buf.String()

	for _, want := range []string{
		"# RQ1 Claims Verification Report\n",
		"This report verifies all statistical claims in `sections/rq1_literature_state.tex`\n",
		"**Run ID:** run-1\n",
		"**Total papers analyzed:** 5\n**Papers matched to BibTeX:** 3\n\n",
		"| 2020 | 2 | 0 ✗ | 0 |\n",
		"| 2023 | 4 | 2 ✗ | 2 |\n",
		"| **Total** | 26 | 4 ✗ | 4 |\n\n",
		"#### 2023 (2 papers)\n",
		"- Large language models are zero-shot fuzzers (2023) \\cite{deng2023fuzz}\n",
		"- An unrelated survey of quantum annealing (2021) (No citation)\n",
		"| Open Weight | 80% | 20.0% ✗ | 1 | 1 |\n",
		"| Custom | 8% | 20.0% ✗ | 1 | 1 |\n",
		"**Total: 1 papers using open-weight models**\n\n",
		"1. PassGPT: Password Modeling and (Guided) Generation with Large Language Models \\cite{rando2023passgpt}\n   - **LLM Used:** GPT-2\n",
		"\n### Proprietary Models (Papers)\n- Large language models are zero-shot fuzzers \\cite{deng2023fuzz}\n  - LLM: Codex (OpenAI davinci)...\n",
		"| Arxiv | 60% | 20.0% ✗ | 1 |\n",
		"| Top Tier | 25% | 0.0% ✗ | 0 |\n",
		"| Specialized | 15% | 80.0% ✗ | 4 |\n",
		"#### Arxiv (1 papers)\n",
		"- Model usage: 1 open-weight (20.0%), 1 proprietary (20.0%), 1 custom (20.0%)\n",
		"- Venue distribution: 1 arXiv (20.0%), 0 top-tier (0.0%), 4 specialized (80.0%)\n",
		"- Publication total: claimed 26, actual 4\n",
		"```latex\nrando2023passgpt\n```\n\nOr in LaTeX format:\n```latex\n\\cite{rando2023passgpt}\n```\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "#### Top Tier")
	assert.NotContains(t, out, "No significant discrepancies")
}

func TestWriteReport_VenueListLimit(t *testing.T) {
	var papers []domain.Paper
	for i := 0; i < 12; i++ {
		papers = append(papers, domain.Paper{Row: i + 1, Title: fmt.Sprintf("Paper %d", i+1)})
	}
	r := Analyze(papers, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, r, ReportOptions{Title: "Check", Claims: DefaultClaims()}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Check\n"))
	assert.Contains(t, out, "#### Specialized (12 papers)\n")
	assert.Contains(t, out, "- Paper 10 (No citation)\n... and 2 more\n")
	assert.NotContains(t, out, "- Paper 11 (No citation)")
	assert.NotContains(t, out, "```latex")
}

func TestHeading(t *testing.T) {
	assert.Equal(t, "Open Weight", heading("open-weight"))
	assert.Equal(t, "Arxiv", heading("arxiv"))
	assert.Equal(t, "Top Tier", heading("top-tier"))
}
