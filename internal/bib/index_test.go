package bib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexBib = `
@string{acl = "Association for Computational Linguistics"}

@inproceedings{devlin2019bert,
  booktitle = {Proceedings of NAACL-HLT},
  title     = {{BERT}: Pre-training of Deep Bidirectional Transformers},
  author    = {Devlin, Jacob and Chang, Ming-Wei},
  year      = {2019},
  publisher = acl,
}

@article{vaswani2017attention,
  title   = "Attention Is All You Need",
  author  = "Vaswani, Ashish and Shazeer, Noam",
  journal = {arXiv preprint arXiv:1706.03762},
  month   = jun,
  year    = 2017
}

@misc{nofields}

@comment{ignored}
`

func TestBuildIndex(t *testing.T) {
	ix := BuildIndex(ParseString(indexBib))
	require.Equal(t, 3, ix.Len())

	keys := make([]string, 0, ix.Len())
	for _, m := range ix.Entries() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"devlin2019bert", "vaswani2017attention", "nofields"}, keys)

	bert, ok := ix.Lookup("devlin2019bert")
	require.True(t, ok)
	assert.Equal(t, "inproceedings", bert.Type)
	assert.Equal(t, "BERT: Pre-training of Deep Bidirectional Transformers", bert.Title)
	assert.Equal(t, "2019", bert.Year)
	assert.Equal(t, "Devlin", bert.FirstAuthor)
	assert.Contains(t, bert.Venue, "Proceedings of NAACL-HLT")
	assert.Contains(t, bert.Venue, "Association for Computational Linguistics")

	attn, ok := ix.Lookup("vaswani2017attention")
	require.True(t, ok)
	assert.Equal(t, "Attention Is All You Need", attn.Title)
	assert.Equal(t, "2017", attn.Year)
	assert.Equal(t, "Vaswani", attn.FirstAuthor)
	assert.Equal(t, "arXiv preprint arXiv:1706.03762", attn.Venue)

	empty, ok := ix.Lookup("nofields")
	require.True(t, ok)
	assert.Empty(t, empty.Title)

	_, ok = ix.Lookup("missing")
	assert.False(t, ok)
}

func TestBuildIndex_FirstKeyWins(t *testing.T) {
	ix := BuildIndex(ParseString("@misc{k, title={First}}\n@misc{k, title={Second}}"))
	require.Equal(t, 1, ix.Len())

	m, _ := ix.Lookup("k")
	assert.Equal(t, "First", m.Title)
}

func TestIndex_CiteForTitle(t *testing.T) {
	ix := BuildIndex(ParseString(indexBib))

	tests := []struct {
		name    string
		title   string
		wantKey string
		wantOK  bool
	}{
		{name: "exact", title: "Attention Is All You Need", wantKey: "vaswani2017attention", wantOK: true},
		{name: "case insensitive", title: "attention is all you need", wantKey: "vaswani2017attention", wantOK: true},
		{name: "sheet title is a prefix", title: "BERT: Pre-training", wantKey: "devlin2019bert", wantOK: true},
		{name: "sheet title extends bib title", title: "Attention Is All You Need (extended)", wantKey: "vaswani2017attention", wantOK: true},
		{name: "no match", title: "Graph Neural Networks", wantOK: false},
		{name: "empty title", title: "  ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := ix.CiteForTitle(tt.title)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestScanFields(t *testing.T) {
	content := `@article{k,
  booktitle = {Book {Title}},
  title = "Quoted {"}inner{"} title",
  year = 2021,
  note = {unterminated`

	fields := scanFields(content)
	assert.Equal(t, "Book {Title}", fields["booktitle"])
	assert.Equal(t, `Quoted {"}inner{"} title`, fields["title"])
	assert.Equal(t, "2021", fields["year"])
	_, hasNote := fields["note"]
	assert.False(t, hasNote)
}

func TestExtractMetadata_QuotesAndPrefixedYear(t *testing.T) {
	e := ParseString(`@article{odd, title = {An "odd" title}, author = {Doe, Jane}, year = {c. 2020}}`)[0]
	m := ExtractMetadata(e)

	assert.Equal(t, "odd", m.Key)
	assert.Equal(t, `An "odd" title`, m.Title)
	assert.Equal(t, "Doe", m.FirstAuthor)
	assert.Equal(t, "2020", m.Year)
}

func TestBuildIndex_UndefinedMacroFallsBackToScan(t *testing.T) {
	src := "@string{acl = \"ACL\"}\n\n" +
		"@inproceedings{k1, title = {A Title}, booktitle = naacl, year = 2019,}\n" +
		"@inproceedings{k2, title = {Second}, booktitle = acl,}"
	ix := BuildIndex(ParseString(src))
	require.Equal(t, 2, ix.Len())

	k1, ok := ix.Lookup("k1")
	require.True(t, ok)
	assert.Equal(t, "A Title", k1.Title)
	assert.Equal(t, "2019", k1.Year)
	assert.Equal(t, "naacl", k1.Venue)

	k2, ok := ix.Lookup("k2")
	require.True(t, ok)
	assert.Equal(t, "ACL", k2.Venue)
}

func TestBuildIndex_MacroChainsAndConcatenation(t *testing.T) {
	src := `@string{proc = "Proceedings of"}
@string{acl = proc # " ACL"}
@string{broken = missing # "x"}

@inproceedings{chained, title = "Deep" # " Learning", booktitle = acl # " 2020", month = may}
@inproceedings{uses_broken, title = {Kept}, booktitle = broken}`

	ix := BuildIndex(ParseString(src))
	require.Equal(t, 2, ix.Len())

	chained, _ := ix.Lookup("chained")
	assert.Equal(t, "Deep Learning", chained.Title)
	assert.Equal(t, "Proceedings of ACL 2020", chained.Venue)

	kept, _ := ix.Lookup("uses_broken")
	assert.Equal(t, "Kept", kept.Title)
	assert.Equal(t, "broken", kept.Venue)
}

func TestExtractMetadata_StandaloneMacroUsesScan(t *testing.T) {
	e := ParseString("@inproceedings{k1, title = {A Title}, booktitle = acl,}")[0]
	m := ExtractMetadata(e)

	assert.Equal(t, "A Title", m.Title)
	assert.Equal(t, "acl", m.Venue)
}

func TestBareWords(t *testing.T) {
	content := `@article{k, title = {a b} # sfx, journal = "x # y", month = jun, year = 2020, note = pre # {z}}`
	assert.Equal(t, []string{"sfx", "jun", "pre"}, bareWords(content))
	assert.Equal(t, "acl", macroName(`@string{ acl = "ACL"}`))
}

func TestFirstYear(t *testing.T) {
	assert.Equal(t, "2019", firstYear("2019"))
	assert.Equal(t, "2020", firstYear("{c. 2020}"))
	assert.Equal(t, "2023", firstYear("20231"))
	assert.Equal(t, "", firstYear("n.d."))
}

func TestTitleSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, TitleSimilarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, TitleSimilarity("Attention", "attention"), 1e-9)
	assert.InDelta(t, 0.0, TitleSimilarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.75, TitleSimilarity("abcd", "abce"), 1e-9)
	assert.InDelta(t, 0.0, TitleSimilarity("abc", ""), 1e-9)
}
