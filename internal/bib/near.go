package bib

import "strings"

// NearDuplicateConfig controls detection of the same work cited under
// different keys.
type NearDuplicateConfig struct {
	// TitleThreshold is the minimum TitleSimilarity for a candidate pair.
	TitleThreshold float64
	// AuthorThreshold is the minimum AuthorOverlap when both entries list
	// authors. Pairs where either side has no authors are judged on title only.
	AuthorThreshold float64
}

// NearDuplicate is a pair of entry indices that probably describe one work.
type NearDuplicate struct {
	First, Second int
	TitleScore    float64
	AuthorScore   float64
}

// FindNearDuplicates compares every pair of entries with distinct keys and
// non-identical content. The result is only reported; nothing is removed.
func FindNearDuplicates(entries []Entry, cfg NearDuplicateConfig) []NearDuplicate {
	type candidate struct {
		idx     int
		title   string
		authors []string
		norm    string
	}

	var cands []candidate
	macros := collectMacros(entries)
	for i, e := range entries {
		if nonCitable[strings.ToLower(e.Type)] {
			continue
		}
		m := extractMetadata(e, macros)
		if m.Title == "" {
			continue
		}
		cands = append(cands, candidate{
			idx:     i,
			title:   m.Title,
			authors: m.AuthorList(),
			norm:    NormalizeContent(e.Content),
		})
	}

	var found []NearDuplicate
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			a, b := cands[i], cands[j]
			if entries[a.idx].Key == entries[b.idx].Key || a.norm == b.norm {
				continue
			}
			ts := TitleSimilarity(a.title, b.title)
			if ts < cfg.TitleThreshold {
				continue
			}
			as := AuthorOverlap(a.authors, b.authors)
			if len(a.authors) > 0 && len(b.authors) > 0 && as < cfg.AuthorThreshold {
				continue
			}
			found = append(found, NearDuplicate{First: a.idx, Second: b.idx, TitleScore: ts, AuthorScore: as})
		}
	}
	return found
}
