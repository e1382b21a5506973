// Package sheet loads the reviewed-papers table from CSV or Excel workbooks.
//
// A Table keeps the header row separate from the data rows. Rows are ragged:
// spreadsheet exports drop trailing empty cells, so lookups past the end of a
// row yield the empty string.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/helixir/slr-toolkit/internal/domain"
)

// Table is a header row plus data rows.
type Table struct {
	// Source names where the table came from, for error messages.
	Source  string
	Headers []string
	Rows    [][]string
}

// Options selects what Load reads.
type Options struct {
	// Sheet is the worksheet name for Excel inputs. Empty means the first sheet.
	Sheet string
}

const utf8BOM = "\ufeff"

// Load reads a table from path, choosing the reader by file extension.
func Load(path string, opts Options) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f, path)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ReadXLSX(path, opts.Sheet)
	default:
		return nil, fmt.Errorf("%s: %w: %q", path, domain.ErrUnsupportedFormat, ext)
	}
}

// ReadCSV parses comma-separated data. The first non-blank record is the header.
func ReadCSV(r io.Reader, source string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", source, err)
	}
	return newTable(source, records)
}

// ReadXLSX reads one worksheet of an Excel workbook.
func ReadXLSX(path, sheet string) (tbl *Table, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook %s: %w", path, cerr)
		}
	}()

	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, domain.NewNotFoundError("sheet", path)
		}
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, domain.NewNotFoundError("sheet", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return newTable(path+"["+sheet+"]", rows)
}

func newTable(source string, records [][]string) (*Table, error) {
	var rows [][]string
	for _, rec := range records {
		if !isBlank(rec) {
			rows = append(rows, rec)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", source, domain.NewValidationError("header", "table has no header row"))
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return &Table{Source: source, Headers: headers, Rows: rows[1:]}, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex finds a header by name. An exact match wins over a
// case-insensitive one.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if i := slices.Index(t.Headers, name); i >= 0 {
		return i, true
	}
	for i, h := range t.Headers {
		if strings.EqualFold(h, name) {
			return i, true
		}
	}
	return -1, false
}

// Require returns a *domain.ColumnError listing the named columns the table lacks.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := t.ColumnIndex(n); !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return domain.NewColumnError(t.Source, missing...)
	}
	return nil
}

// Cell returns row[idx], or "" when the row is too short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Papers maps every data row onto the named paper columns. Absent columns
// leave the field empty.
func (t *Table) Papers() []domain.Paper {
	col := func(name string) int {
		i, _ := t.ColumnIndex(name)
		return i
	}
	number, title, category := col(domain.ColumnNumber), col(domain.ColumnTitle), col(domain.ColumnCategory)
	year, llm := col(domain.ColumnYear), col(domain.ColumnLLM)

	papers := make([]domain.Paper, len(t.Rows))
	for i, row := range t.Rows {
		papers[i] = domain.Paper{
			Row:      i + 1,
			Number:   strings.TrimSpace(Cell(row, number)),
			Title:    strings.TrimSpace(Cell(row, title)),
			Category: strings.TrimSpace(Cell(row, category)),
			Year:     strings.TrimSpace(Cell(row, year)),
			LLM:      Cell(row, llm),
		}
	}
	return papers
}
