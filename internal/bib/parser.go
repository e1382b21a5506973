package bib

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	at     byte = '@'
	lbrace byte = '{'
	rbrace byte = '}'
	comma  byte = ','
)

// Entry is a single BibTeX entry as it appears in the source file.
type Entry struct {
	// Key is the citation key, trimmed.
	Key string
	// Type is the entry type as written (article, inproceedings, ...).
	Type string
	// Content is the raw entry text from '@' through the closing brace.
	Content string
	// StartLine and EndLine are the 1-based lines of '@' and the closing brace.
	StartLine int
	EndLine   int
}

// Lines returns the line range formatted as "start-end".
func (e Entry) Lines() string {
	return fmt.Sprintf("%d-%d", e.StartLine, e.EndLine)
}

// Parse reads all entries from r.
func Parse(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read bibliography: %w", err)
	}
	return ParseString(string(data)), nil
}

// ParseFile reads all entries from the named file.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bibliography %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// ParseString scans src for entries. Malformed entries are skipped; an entry
// whose braces never balance ends the scan since nothing after it can be
// attributed to a well-formed entry.
func ParseString(src string) []Entry {
	s := newScanner(src)
	var entries []Entry
	for {
		e, ok := s.next()
		if !ok {
			return entries
		}
		entries = append(entries, e)
	}
}

type scanner struct {
	src      string
	pos      int
	newlines []int // byte offsets of every '\n' in src
}

func newScanner(src string) *scanner {
	s := &scanner{src: src}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			s.newlines = append(s.newlines, i)
		}
	}
	return s
}

// lineAt returns the 1-based line of the byte at offset.
func (s *scanner) lineAt(offset int) int {
	return sort.SearchInts(s.newlines, offset) + 1
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

// next returns the next well-formed entry, or false when the input is exhausted.
func (s *scanner) next() (Entry, bool) {
	n := len(s.src)
	for s.pos < n {
		if s.src[s.pos] != at {
			s.pos++
			continue
		}
		start := s.pos
		s.pos++
		s.skipSpace()

		typeStart := s.pos
		for s.pos < n {
			r, size := utf8.DecodeRuneInString(s.src[s.pos:])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			s.pos += size
		}
		typ := s.src[typeStart:s.pos]
		if typ == "" {
			s.pos++
			continue
		}

		s.skipSpace()
		if s.pos >= n || s.src[s.pos] != lbrace {
			s.pos++
			continue
		}
		open := s.pos

		keyEnd := s.scanKey(open)
		if keyEnd < 0 {
			// Unbalanced: the key scan consumed the rest of the input.
			s.pos = n
			return Entry{}, false
		}
		key := strings.TrimSpace(s.src[open+1 : keyEnd])
		if key == "" {
			s.pos = keyEnd + 1
			continue
		}

		end := s.matchBrace(open)
		if end < 0 {
			s.pos = n
			return Entry{}, false
		}
		s.pos = end
		return Entry{
			Key:       key,
			Type:      typ,
			Content:   s.src[start:end],
			StartLine: s.lineAt(start),
			EndLine:   s.lineAt(end),
		}, true
	}
	return Entry{}, false
}

// scanKey returns the offset of the first ',' at depth 1 after the opening
// brace, or of the brace closing the entry if that comes first. It returns -1
// when neither exists.
func (s *scanner) scanKey(open int) int {
	depth := 1
	for i := open + 1; i < len(s.src); i++ {
		switch s.src[i] {
		case lbrace:
			depth++
		case rbrace:
			depth--
			if depth == 0 {
				return i
			}
		case comma:
			if depth == 1 {
				return i
			}
		}
	}
	return -1
}

// matchBrace returns the offset just past the brace that closes open, or -1.
func (s *scanner) matchBrace(open int) int {
	depth := 1
	for i := open + 1; i < len(s.src); i++ {
		switch s.src[i] {
		case lbrace:
			depth++
		case rbrace:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
