package bib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBib = `
@string{goossens = "Goossens, Michel"}

This line is an implicit comment.

@article{FuMetalhalideperovskite2019,
    author = "Yongping Fu and Haiming Zhu and Jie Chen",
    journal = {Nature Reviews Materials},
    month = feb,
    publisher = {Springer Science and Business Media {LLC}},
    title = {Metal halide perovskite nanostructures for optoelectronic applications},
    year = {2019}
}

@comment{
    This is a comment.
    Spanning over two lines.
}

@inproceedings{LiuPhotocatalytichydrogenproduction2016,
    author = {Maochang Liu and Yubin Chen},
    booktitle = {Proceedings of Energy},
    title = {Photocatalytic hydrogen production using an unanchored {NiSx} co-catalyst},
    year = {2016}
}
`

func TestParseString_Sample(t *testing.T) {
	entries := ParseString(sampleBib)
	require.Len(t, entries, 4)

	assert.Equal(t, "string", entries[0].Type)
	assert.Equal(t, `goossens = "Goossens`, entries[0].Key)

	fu := entries[1]
	assert.Equal(t, "article", fu.Type)
	assert.Equal(t, "FuMetalhalideperovskite2019", fu.Key)
	assert.Equal(t, 6, fu.StartLine)
	assert.Equal(t, 13, fu.EndLine)
	assert.True(t, strings.HasPrefix(fu.Content, "@article{FuMetal"))
	assert.True(t, strings.HasSuffix(fu.Content, "year = {2019}\n}"))
	assert.Contains(t, fu.Content, "Media {LLC}}")

	assert.Equal(t, "comment", entries[2].Type)
	assert.Equal(t, "inproceedings", entries[3].Type)
	assert.Equal(t, "LiuPhotocatalytichydrogenproduction2016", entries[3].Key)
	assert.Equal(t, "20-25", entries[3].Lines())
}

func TestParseString_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKeys []string
	}{
		{
			name:     "empty input",
			input:    "",
			wantKeys: nil,
		},
		{
			name:     "no entries",
			input:    "just some text\nwithout entries\n",
			wantKeys: nil,
		},
		{
			name:     "missing entry type",
			input:    "@ {x, title={t}}",
			wantKeys: nil,
		},
		{
			name:     "type not followed by brace",
			input:    "@article key, title={t}}",
			wantKeys: nil,
		},
		{
			name:     "empty key is skipped",
			input:    "@article{ , title={t}}\n@book{kept, title={u}}",
			wantKeys: []string{"kept"},
		},
		{
			name:     "key without fields",
			input:    "@misc{onlykey}",
			wantKeys: []string{"onlykey"},
		},
		{
			name:     "whitespace between type and brace",
			input:    "@ article \n {spaced, title={t}}",
			wantKeys: []string{"spaced"},
		},
		{
			name:     "at sign inside text",
			input:    "mail me@example.com please\n@book{k1, title={t}}",
			wantKeys: []string{"k1"},
		},
		{
			name:     "nested braces in key position",
			input:    "@misc{{weird}key, title={t}}",
			wantKeys: []string{"{weird}key"},
		},
		{
			name:     "unterminated entry stops the scan",
			input:    "@article{k1, title={x}\n@book{k2, title={y}}",
			wantKeys: nil,
		},
		{
			name:     "entries after a complete one",
			input:    "@a{k1, t={x}}@b{k2, t={y}}",
			wantKeys: []string{"k1", "k2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := ParseString(tt.input)
			var keys []string
			for _, e := range entries {
				keys = append(keys, e.Key)
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestParseString_ContentIsVerbatim(t *testing.T) {
	input := "prefix\n@Article{Key1,\n  title = {A {B} C},\n  note  = {x}\n}\nsuffix"
	entries := ParseString(input)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "Article", e.Type)
	assert.Equal(t, "Key1", e.Key)
	assert.Equal(t, "@Article{Key1,\n  title = {A {B} C},\n  note  = {x}\n}", e.Content)
	assert.Equal(t, 2, e.StartLine)
	assert.Equal(t, 5, e.EndLine)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")
	require.NoError(t, os.WriteFile(path, []byte(sampleBib), 0o644))

	entries, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.bib"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
