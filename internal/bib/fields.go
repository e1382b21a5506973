package bib

import (
	"strings"
)

// scanFields extracts name/value pairs from a raw entry without interpreting
// macros or concatenation. It is used for entries the strict parser rejects,
// so it never fails: unreadable trailing text is ignored.
func scanFields(content string) map[string]string {
	fields := make(map[string]string)

	open := strings.IndexByte(content, lbrace)
	if open < 0 {
		return fields
	}
	// Skip the citation key.
	s := newScanner(content)
	keyEnd := s.scanKey(open)
	if keyEnd < 0 || content[keyEnd] != comma {
		return fields
	}

	i := keyEnd + 1
	n := len(content)
	for i < n {
		for i < n && (isSpaceByte(content[i]) || content[i] == comma) {
			i++
		}
		if i >= n || content[i] == rbrace {
			break
		}

		eq := strings.IndexByte(content[i:], '=')
		if eq < 0 {
			break
		}
		name := strings.ToLower(strings.TrimSpace(content[i : i+eq]))
		i += eq + 1
		for i < n && isSpaceByte(content[i]) {
			i++
		}
		if i >= n {
			break
		}

		var value string
		switch content[i] {
		case lbrace:
			end := s.matchBrace(i)
			if end < 0 {
				return fields
			}
			value = content[i+1 : end-1]
			i = end
		case '"':
			end := closingQuote(content, i+1)
			if end < 0 {
				return fields
			}
			value = content[i+1 : end]
			i = end + 1
		default:
			start := i
			for i < n && content[i] != comma && content[i] != rbrace {
				i++
			}
			value = strings.TrimSpace(content[start:i])
		}
		if name != "" {
			if _, dup := fields[name]; !dup {
				fields[name] = value
			}
		}
	}
	return fields
}

// closingQuote returns the offset of the '"' ending a quoted value that starts
// at from, skipping quotes nested inside braces.
func closingQuote(s string, from int) int {
	depth := 0
	for i := from; i < len(s); i++ {
		switch s[i] {
		case lbrace:
			depth++
		case rbrace:
			depth--
		case '"':
			if depth == 0 && s[i-1] != '\\' {
				return i
			}
		}
	}
	return -1
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// cleanValue drops grouping braces and collapses whitespace in a field value.
func cleanValue(v string) string {
	v = strings.Map(func(r rune) rune {
		if r == '{' || r == '}' {
			return -1
		}
		return r
	}, v)
	return strings.Join(strings.Fields(v), " ")
}

// firstYear returns the first run of four digits in v.
func firstYear(v string) string {
	for i := 0; i+4 <= len(v); i++ {
		if isASCIIDigit(v[i]) && isASCIIDigit(v[i+1]) && isASCIIDigit(v[i+2]) && isASCIIDigit(v[i+3]) {
			return v[i : i+4]
		}
	}
	return ""
}

func isASCIIDigit(b byte) bool { return '0' <= b && b <= '9' }
