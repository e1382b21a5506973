// Package latex renders the reviewed-papers table as LaTeX.
//
// Two layouts are supported: a compact table* float scaled to the text width,
// and a multi-page longtable with booktabs rules. Each layout has its own
// escaping rules, see Escape and Clean.
package latex

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/helixir/slr-toolkit/internal/domain"
)

// mathSymbols map to inline math in the table* layout.
var mathSymbols = map[rune]string{
	'∆':      `$\Delta$`,
	'Δ':      `$\Delta$`,
	'α':      `$\alpha$`,
	'𝜖':      `$\epsilon$`,
	'𝑒':      `$\epsilon$`,
	'μ':      `$\mu$`,
	'∝':      `$\propto$`,
	'τ':      `$\tau$`,
	'θ':      `$\theta$`,
	'∩':      `$\cap$`,
	'≠':      `$\neq$`,
	'\u0302': `\textasciicircum{}`,
	'~':      `\textasciitilde{}`,
	'^':      `\textasciicircum{}`,
	'\\':     `\textbackslash{}`,
	'%':      `\%`,
	'&':      `\&`,
	'#':      `\#`,
	'{':      `\{`,
	'}':      `\}`,
	'\n':     " ",
	'\r':     " ",
}

// Escape prepares a cell for the table* layout. Every rune is translated at
// most once, so the output of one rule is never escaped again by another.
// Underscores are left alone when the whole cell ends up in math mode.
func Escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if rep, ok := mathSymbols[r]; ok {
			sb.WriteString(rep)
			continue
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	if strings.HasPrefix(out, "$") && strings.HasSuffix(out, "$") {
		return out
	}
	return strings.ReplaceAll(out, "_", `\_`)
}

// textSymbols map to \ensuremath in the longtable layout.
var textSymbols = map[rune]string{
	'∆': `\ensuremath{\Delta}`,
	'Δ': `\ensuremath{\Delta}`,
	'α': `\ensuremath{\alpha}`,
	'μ': `\ensuremath{\mu}`,
	'~': `\textasciitilde{}`,
	'^': `\textasciicircum{}`,
}

const (
	maxCellRunes   = 150
	truncatedRunes = 147
	ellipsis       = "..."
)

// Clean prepares a cell for the longtable layout: symbols become
// \ensuremath, line breaks and whitespace runs collapse to one space,
// unescaped & % # _ are escaped, combining diacritical marks are dropped and
// the result is cut to 150 runes.
func Clean(s string) string {
	if s == "" || s == domain.NotSpecified {
		return domain.NotSpecified
	}

	var sb strings.Builder
	sb.Grow(len(s))
	prev := rune(0)
	for _, r := range s {
		switch {
		case r >= 0x300 && r <= 0x36f:
			prev = r
			continue
		case textSymbols[r] != "":
			sb.WriteString(textSymbols[r])
		case (r == '&' || r == '%' || r == '#' || r == '_') && prev != '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
		prev = r
	}

	out := strings.Join(strings.Fields(sb.String()), " ")
	return Truncate(out, maxCellRunes, truncatedRunes)
}

// Truncate cuts s to keep runes followed by "..." when it is longer than
// limit runes.
func Truncate(s string, limit, keep int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:keep]) + ellipsis
}

// TitleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "LLM" becomes "Llm" and "context aware" becomes
// "Context Aware".
func TitleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inWord := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && inWord:
			sb.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r):
			sb.WriteRune(unicode.ToTitle(r))
			inWord = true
		default:
			sb.WriteRune(r)
			inWord = false
		}
	}
	return sb.String()
}

// Header turns a column name into its table heading.
func Header(column string) string {
	return TitleCase(strings.ReplaceAll(column, "_", " "))
}
