package bib

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// TitleSimilarity returns a case-insensitive similarity ratio in [0, 1]
// computed as 2*M/T, where M is the length of the longest common subsequence
// and T the combined rune count of both strings. Two empty strings are equal.
func TitleSimilarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1.0
	}
	return 2 * float64(edlib.LCS(a, b)) / float64(total)
}
