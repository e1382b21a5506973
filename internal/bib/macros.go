package bib

import (
	"strconv"
	"strings"
)

// monthMacros are the abbreviations the strict parser defines on its own.
var monthMacros = map[string]bool{
	"jan": true, "feb": true, "mar": true, "apr": true, "may": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "oct": true, "nov": true, "dec": true,
}

type macroDef struct {
	content string
	deps    []string
}

// macroTable holds the @string definitions of a file. Names are
// case-sensitive, as in the strict parser.
type macroTable struct {
	order []string
	defs  map[string]macroDef
}

// collectMacros gathers the @string definitions in entries. A definition is
// kept only when every macro it references is a month or an earlier
// definition; the first definition of a name wins.
func collectMacros(entries []Entry) *macroTable {
	mt := &macroTable{defs: make(map[string]macroDef)}
	for _, e := range entries {
		if !strings.EqualFold(e.Type, "string") {
			continue
		}
		name := macroName(e.Content)
		if name == "" {
			continue
		}
		if _, dup := mt.defs[name]; dup {
			continue
		}
		deps, ok := mt.resolvable(bareWords(e.Content))
		if !ok {
			continue
		}
		mt.defs[name] = macroDef{content: e.Content, deps: deps}
		mt.order = append(mt.order, name)
	}
	return mt
}

// resolvable reports whether every word is a month or a known macro, and
// returns the macros among them.
func (mt *macroTable) resolvable(words []string) ([]string, bool) {
	var used []string
	for _, w := range words {
		if monthMacros[w] {
			continue
		}
		if mt == nil {
			return nil, false
		}
		if _, ok := mt.defs[w]; !ok {
			return nil, false
		}
		used = append(used, w)
	}
	return used, true
}

// prelude returns the definitions of names and everything they reference, in
// file order.
func (mt *macroTable) prelude(names []string) string {
	if len(names) == 0 {
		return ""
	}
	need := make(map[string]bool)
	stack := append([]string(nil), names...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if need[n] {
			continue
		}
		need[n] = true
		stack = append(stack, mt.defs[n].deps...)
	}

	var b strings.Builder
	for _, n := range mt.order {
		if need[n] {
			b.WriteString(mt.defs[n].content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// macroName returns the name defined by an @string entry.
func macroName(content string) string {
	open := strings.IndexByte(content, lbrace)
	if open < 0 {
		return ""
	}
	eq := strings.IndexByte(content[open:], '=')
	if eq < 0 {
		return ""
	}
	return strings.TrimSpace(content[open+1 : open+eq])
}

// bareWords returns the unquoted, unbraced, non-numeric words that appear in
// field values. The strict parser looks each of them up as a macro.
func bareWords(content string) []string {
	open := strings.IndexByte(content, lbrace)
	if open < 0 {
		return nil
	}
	s := newScanner(content)
	var words []string
	inValue := false
	for i := open + 1; i < len(content); {
		c := content[i]
		switch {
		case c == '=':
			inValue = true
			i++
		case c == comma:
			inValue = false
			i++
		case !inValue:
			i++
		case c == lbrace:
			end := s.matchBrace(i)
			if end < 0 {
				return words
			}
			i = end
		case c == '"':
			end := closingQuote(content, i+1)
			if end < 0 {
				return words
			}
			i = end + 1
		case isSpaceByte(c) || c == '#' || c == rbrace:
			i++
		default:
			start := i
			for i < len(content) && !isSpaceByte(content[i]) && !strings.ContainsRune(",{}\"#=", rune(content[i])) {
				i++
			}
			w := content[start:i]
			if _, err := strconv.Atoi(w); err != nil {
				words = append(words, w)
			}
		}
	}
	return words
}
