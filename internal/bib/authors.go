package bib

import (
	"strings"
	"unicode"
)

// AuthorOverlap computes a fuzzy overlap score between two author lists.
// Each author of the shorter list is paired with the most similar unmatched
// author of the longer list; the summed pair scores are divided by the size of
// the union.
//
// Returns 0.0 if either list is empty, 1.0 for a perfect match.
// The result is symmetric.
func AuthorOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	normA := normalizeNames(a)
	normB := normalizeNames(b)
	if len(normA) > len(normB) {
		normA, normB = normB, normA
	}

	used := make([]bool, len(normB))
	matched := 0
	total := 0.0
	for _, nameA := range normA {
		best, bestIdx := 0.0, -1
		for j, nameB := range normB {
			if used[j] {
				continue
			}
			if s := nameSimilarity(nameA, nameB); s > best {
				best, bestIdx = s, j
			}
		}
		if bestIdx >= 0 {
			used[bestIdx] = true
			matched++
			total += best
		}
	}

	union := len(normA) + len(normB) - matched
	if union == 0 {
		return 0.0
	}
	return total / float64(union)
}

// NormalizeName lowercases a name, turns "Last, First" into "First Last" and
// keeps only letters and single spaces.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	if last, first, found := strings.Cut(name, ","); found {
		last, first = strings.TrimSpace(last), strings.TrimSpace(first)
		if first != "" {
			name = first + " " + last
		} else {
			name = last
		}
	}

	var sb strings.Builder
	sb.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			sb.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// nameSimilarity scores two normalized names:
//   - same last and first names: 1.0
//   - same last name, matching initial: 0.9
//   - same last name, a first name missing: 0.7
//   - same last name, different first names: 0.3
//   - different last names: 0.0
func nameSimilarity(a, b string) float64 {
	partsA, partsB := strings.Fields(a), strings.Fields(b)
	if len(partsA) == 0 || len(partsB) == 0 {
		return 0.0
	}
	if partsA[len(partsA)-1] != partsB[len(partsB)-1] {
		return 0.0
	}

	firstA, firstB := partsA[:len(partsA)-1], partsB[:len(partsB)-1]
	if len(firstA) == 0 || len(firstB) == 0 {
		return 0.7
	}
	if strings.Join(firstA, " ") == strings.Join(firstB, " ") {
		return 1.0
	}
	if isInitialMatch(firstA[0], firstB[0]) {
		return 0.9
	}
	return 0.3
}

// isInitialMatch reports whether one name is the single-letter initial of the
// other.
func isInitialMatch(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 1 && len(rb) > 1 && ra[0] == rb[0] {
		return true
	}
	return len(rb) == 1 && len(ra) > 1 && rb[0] == ra[0]
}

func normalizeNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = NormalizeName(n)
	}
	return out
}
