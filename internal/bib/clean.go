package bib

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// NormalizeContent strips all whitespace from s and lowercases it. Two entries
// are identical when their normalized contents are equal.
func NormalizeContent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// DuplicateGroup lists the indices of entries with identical normalized content.
type DuplicateGroup struct {
	Indices []int
}

// ConflictGroup lists the indices of entries sharing Key whose contents differ.
type ConflictGroup struct {
	Key     string
	Indices []int
}

// FindDuplicates returns groups of two or more identical entries, ordered by
// first occurrence.
func FindDuplicates(entries []Entry) []DuplicateGroup {
	order, groups := groupBy(entries, func(e Entry) string { return NormalizeContent(e.Content) })

	var dups []DuplicateGroup
	for _, norm := range order {
		if idx := groups[norm]; len(idx) > 1 {
			dups = append(dups, DuplicateGroup{Indices: idx})
		}
	}
	return dups
}

// FindConflicts returns keys used by two or more entries whose normalized
// contents are not all equal, ordered by first occurrence of the key.
func FindConflicts(entries []Entry) []ConflictGroup {
	order, groups := groupBy(entries, func(e Entry) string { return e.Key })

	var conflicts []ConflictGroup
	for _, key := range order {
		idx := groups[key]
		if len(idx) < 2 {
			continue
		}
		first := NormalizeContent(entries[idx[0]].Content)
		for _, i := range idx[1:] {
			if NormalizeContent(entries[i].Content) != first {
				conflicts = append(conflicts, ConflictGroup{Key: key, Indices: idx})
				break
			}
		}
	}
	return conflicts
}

func groupBy(entries []Entry, keyFn func(Entry) string) ([]string, map[string][]int) {
	var order []string
	groups := make(map[string][]int, len(entries))
	for i, e := range entries {
		k := keyFn(e)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	return order, groups
}

// RemoveDuplicates keeps the first entry of every duplicate group and returns
// the remaining entries in their original order.
func RemoveDuplicates(entries []Entry, groups []DuplicateGroup) []Entry {
	drop := make(map[int]bool)
	for _, g := range groups {
		for _, i := range g.Indices[1:] {
			drop[i] = true
		}
	}

	unique := make([]Entry, 0, len(entries)-len(drop))
	for i, e := range entries {
		if !drop[i] {
			unique = append(unique, e)
		}
	}
	return unique
}

// Write writes the raw entries separated by a blank line.
func Write(w io.Writer, entries []Entry) error {
	for i, e := range entries {
		if _, err := io.WriteString(w, e.Content); err != nil {
			return err
		}
		if i < len(entries)-1 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteFile replaces the named file with the given entries.
func WriteFile(path string, entries []Entry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return Write(f, entries)
}

// CleanResult is the outcome of cleaning a parsed bibliography.
type CleanResult struct {
	// Entries holds every parsed entry, including removed duplicates.
	Entries []Entry
	// Unique holds the entries that survive duplicate removal.
	Unique     []Entry
	Duplicates []DuplicateGroup
	Conflicts  []ConflictGroup
	// NearDuplicates is only filled when near-duplicate detection is enabled.
	NearDuplicates []NearDuplicate
}

// Total returns the number of entries processed.
func (r *CleanResult) Total() int { return len(r.Entries) }

// Removed returns the number of entries dropped as duplicates.
func (r *CleanResult) Removed() int { return len(r.Entries) - len(r.Unique) }

// Changed reports whether writing Unique back would alter the file's entries.
func (r *CleanResult) Changed() bool { return r.Removed() > 0 }

// Clean finds duplicates and conflicts and removes the duplicates.
// Conflicting entries are never removed.
func Clean(entries []Entry) *CleanResult {
	dups := FindDuplicates(entries)
	return &CleanResult{
		Entries:    entries,
		Unique:     RemoveDuplicates(entries, dups),
		Duplicates: dups,
		Conflicts:  FindConflicts(entries),
	}
}

// DetectNearDuplicates fills NearDuplicates with probable duplicates among
// the surviving entries. Indices still refer to Entries.
func (r *CleanResult) DetectNearDuplicates(cfg NearDuplicateConfig) {
	removed := make(map[int]bool)
	for _, g := range r.Duplicates {
		for _, i := range g.Indices[1:] {
			removed[i] = true
		}
	}

	r.NearDuplicates = nil
	for _, nd := range FindNearDuplicates(r.Entries, cfg) {
		if removed[nd.First] || removed[nd.Second] {
			continue
		}
		r.NearDuplicates = append(r.NearDuplicates, nd)
	}
}
