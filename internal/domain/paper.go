package domain

import (
	"math"
	"strconv"
	"strings"
)

// Column names of the reviewed-papers sheet. The header row of the SLR
// spreadsheet uses these exact spellings.
const (
	ColumnNumber   = "#"
	ColumnTitle    = "title"
	ColumnCategory = "Category"
	ColumnYear     = "Year"
	ColumnLLM      = "LLM"
)

// NotSpecified is rendered wherever a cell carries no value.
const NotSpecified = "[Not specified]"

// Paper is one reviewed paper, i.e. one data row of the SLR sheet.
type Paper struct {
	// Row is the 1-based position of the row among the data rows.
	Row      int
	Number   string
	Title    string
	Category string
	Year     string
	LLM      string
}

// HasTitle reports whether the paper carries a usable title.
func (p Paper) HasTitle() bool {
	t := strings.TrimSpace(p.Title)
	return t != "" && t != NotSpecified && !strings.EqualFold(t, "nan")
}

// YearInt parses the publication year. Spreadsheets frequently store years as
// floats ("2023.0"), which are accepted.
func (p Paper) YearInt() (int, bool) {
	return parseWhole(p.Year)
}

// NumberInt parses the paper number from the "#" column.
func (p Paper) NumberInt() (int, bool) {
	return parseWhole(p.Number)
}

// YearString returns the year normalized to its integer form, or the trimmed
// raw value when it is not numeric.
func (p Paper) YearString() string {
	if y, ok := p.YearInt(); ok {
		return strconv.Itoa(y)
	}
	return strings.TrimSpace(p.Year)
}

func parseWhole(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
