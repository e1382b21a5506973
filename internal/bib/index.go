package bib

import (
	"strings"
	"sync"

	"github.com/nickng/bibtex"
)

// Metadata is the citation data the table generator and verifier need.
type Metadata struct {
	Key   string
	Type  string
	Title string
	Year  string
	// Authors is the raw author list ("A and B and C").
	Authors string
	// FirstAuthor is the text before the first comma of Authors.
	FirstAuthor string
	// Venue joins journal, booktitle and publisher.
	Venue string
}

// AuthorList splits Authors on the BibTeX "and" separator. The "and others"
// marker for a truncated list is not a name and is dropped.
func (m Metadata) AuthorList() []string {
	if strings.TrimSpace(m.Authors) == "" {
		return nil
	}
	var names []string
	for _, part := range splitAnd(m.Authors) {
		p := strings.TrimSpace(part)
		if p == "" || strings.EqualFold(p, "others") {
			continue
		}
		names = append(names, p)
	}
	return names
}

func splitAnd(s string) []string {
	var parts []string
	lower := strings.ToLower(s)
	start := 0
	for {
		i := strings.Index(lower[start:], " and ")
		if i < 0 {
			return append(parts, s[start:])
		}
		parts = append(parts, s[start:start+i])
		start += i + len(" and ")
	}
}

// nonCitable entry types carry no bibliographic record.
var nonCitable = map[string]bool{
	"comment":  true,
	"preamble": true,
	"string":   true,
}

// Index maps citation keys to metadata, preserving file order.
type Index struct {
	entries []Metadata
	byKey   map[string]int
}

// BuildIndex extracts metadata from entries. When a key occurs more than once
// the first occurrence wins.
func BuildIndex(entries []Entry) *Index {
	ix := &Index{byKey: make(map[string]int, len(entries))}
	macros := collectMacros(entries)
	for _, e := range entries {
		if nonCitable[strings.ToLower(e.Type)] {
			continue
		}
		if _, dup := ix.byKey[e.Key]; dup {
			continue
		}
		ix.byKey[e.Key] = len(ix.entries)
		ix.entries = append(ix.entries, extractMetadata(e, macros))
	}
	return ix
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int { return len(ix.entries) }

// Entries returns the metadata in file order.
func (ix *Index) Entries() []Metadata { return ix.entries }

// Lookup returns the metadata for key.
func (ix *Index) Lookup(key string) (Metadata, bool) {
	i, ok := ix.byKey[key]
	if !ok {
		return Metadata{}, false
	}
	return ix.entries[i], true
}

// CiteForTitle returns the key of the first entry whose title contains title
// or is contained in it, ignoring case.
func (ix *Index) CiteForTitle(title string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return "", false
	}
	for _, m := range ix.entries {
		bt := strings.ToLower(m.Title)
		if bt == "" {
			continue
		}
		if strings.Contains(bt, t) || strings.Contains(t, bt) {
			return m.Key, true
		}
	}
	return "", false
}

// ExtractMetadata reads the citation fields of a single entry on its own, so
// only the month abbreviations count as defined macros.
func ExtractMetadata(e Entry) Metadata {
	return extractMetadata(e, nil)
}

// extractMetadata hands the entry to the strict BibTeX parser, preceded by the
// @string definitions it uses, so macros and concatenations resolve. Entries
// that reference an undefined macro, or that the parser rejects, fall back to
// a raw field scan.
func extractMetadata(e Entry, macros *macroTable) Metadata {
	var fields map[string]string
	ok := false
	if used, resolved := macros.resolvable(bareWords(e.Content)); resolved {
		fields, ok = parseStrict(macros.prelude(used) + e.Content)
	}
	if !ok {
		fields = scanFields(e.Content)
	}

	m := Metadata{
		Key:     e.Key,
		Type:    strings.ToLower(e.Type),
		Title:   cleanValue(fields["title"]),
		Year:    firstYear(fields["year"]),
		Authors: cleanValue(fields["author"]),
	}
	if m.Authors != "" {
		first, _, _ := strings.Cut(m.Authors, ",")
		m.FirstAuthor = strings.TrimSpace(first)
	}

	var venue []string
	for _, f := range []string{"journal", "booktitle", "publisher"} {
		if v := cleanValue(fields[f]); v != "" {
			venue = append(venue, v)
		}
	}
	m.Venue = strings.Join(venue, " ")
	return m
}

// strictMu serializes the strict parser, whose scanner keeps its
// inside-a-field flag in a package variable.
var strictMu sync.Mutex

// parseStrict must only see macros that are defined in content or are month
// abbreviations: the parser exits the process on an unknown macro.
func parseStrict(content string) (map[string]string, bool) {
	strictMu.Lock()
	defer strictMu.Unlock()

	// A lone comma clears the field flag a previous failed parse may have
	// left set.
	_, _ = bibtex.Parse(strings.NewReader(","))

	parsed, err := bibtex.Parse(strings.NewReader(content))
	if err != nil || parsed == nil || len(parsed.Entries) != 1 {
		return nil, false
	}
	entry := parsed.Entries[0]
	fields := make(map[string]string, len(entry.Fields))
	for name, value := range entry.Fields {
		if value == nil {
			continue
		}
		v := value.String()
		if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
			v = v[1 : len(v)-1]
		}
		fields[strings.ToLower(strings.TrimSpace(name))] = v
	}
	return fields, true
}
