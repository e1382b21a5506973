package bib

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

var (
	heavyRule = strings.Repeat("=", 70)
	lightRule = strings.Repeat("-", 70)
)

// Print writes the human-readable cleaning report. Occurrences are numbered by
// their position in the original file.
func (r *CleanResult) Print(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("%s\nBibTeX Duplicate Cleaner Report\n%s\n\n", heavyRule, heavyRule)
	ew.printf("Total entries processed: %d\n", r.Total())
	ew.printf("Duplicate entries removed: %d\n", r.Removed())
	ew.printf("Unique entries remaining: %d\n\n", len(r.Unique))

	if len(r.Duplicates) > 0 {
		ew.printf("Duplicate groups found: %d\n", len(r.Duplicates))
		ew.printf("\nDuplicate entries (same key and content):\n%s\n", lightRule)
		for _, g := range r.Duplicates {
			e := r.Entries[g.Indices[0]]
			ew.printf("  Key: %s (%d occurrences)\n", e.Key, len(g.Indices))
			ew.printf("    Type: %s\n", e.Type)
			ew.printf("    Lines: %s\n", e.Lines())
		}
		ew.printf("\n")
	}

	if len(r.Conflicts) > 0 {
		ew.printf("Conflicting keys found: %d\n", len(r.Conflicts))
		ew.printf("\nEntries with same key but different data (KEPT - requires manual review):\n%s\n", lightRule)
		for _, g := range r.Conflicts {
			ew.printf("  Key: %s (%d occurrences with different content)\n", g.Key, len(g.Indices))
			for _, i := range g.Indices {
				e := r.Entries[i]
				ew.printf("    - Occurrence %d: %s, lines %s\n", i+1, e.Type, e.Lines())
			}
			ew.printf("\n")
		}
	} else {
		ew.printf("No conflicting keys found (all entries with same key have identical content).\n\n")
	}

	if len(r.NearDuplicates) > 0 {
		ew.printf("Possible duplicates under different keys: %d\n", len(r.NearDuplicates))
		ew.printf("\nSimilar title and authors (KEPT - requires manual review):\n%s\n", lightRule)
		for _, nd := range r.NearDuplicates {
			a, b := r.Entries[nd.First], r.Entries[nd.Second]
			ew.printf("  %s (lines %s) ~ %s (lines %s)\n", a.Key, a.Lines(), b.Key, b.Lines())
			ew.printf("    title similarity %.2f, author overlap %.2f\n", nd.TitleScore, nd.AuthorScore)
		}
		ew.printf("\n")
	}

	ew.printf("%s\nCleaning complete!\n%s\n", heavyRule, heavyRule)
	return ew.err
}

// String returns the report as text.
func (r *CleanResult) String() string {
	var b bytes.Buffer
	if err := r.Print(&b); err != nil {
		b.WriteString("error: " + err.Error())
	}
	return b.String()
}

// errWriter remembers the first write error so report code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
