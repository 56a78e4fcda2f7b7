// =============================================================================
// Spreadsheet Translator - Book Reader
// =============================================================================
//
// This module reads a book (one spreadsheet file) into sheets of translation
// entries. XLSX workbooks are read with excelize; CSV files are read as a
// single sheet named after the file.
//
// SHEET STRUCTURE (key_columns = 2):
//
//   | Column A | Column B  | Column C        | Column D          |
//   |----------|-----------|-----------------|-------------------|
//   | section  | key       | en              | es_ES             |  <- header row
//   | homepage | title     | Welcome         | Bienvenido        |
//   |          | subtitle  | Start here      | Empieza aquí      |  <- "homepage" filled down
//   | footer   | copyright | (c) Acme        |                   |  <- no es_ES entry
//
//   The leading key columns are joined with the key separator
//   (homepage.title, homepage.subtitle, footer.copyright). Every other
//   non-empty header cell must be a locale.
//
// =============================================================================

package sheetreader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/spreadsheet-translator/internal/locale"
	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when a book has no sheet with the requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrDuplicateLocale is returned when two header cells name the same locale.
var ErrDuplicateLocale = errors.New("duplicate locale column")

// ErrUnsupportedSource is returned for files that are neither XLSX nor CSV.
var ErrUnsupportedSource = errors.New("unsupported spreadsheet source")

// ParseError reports a problem at a specific cell of a sheet.
type ParseError struct {
	Sheet  string
	Row    int // 1-based
	Column int // 1-based
	Err    error
}

func (e *ParseError) Error() string {
	cell, err := excelize.CoordinatesToCellName(e.Column, e.Row)
	if err != nil {
		cell = fmt.Sprintf("R%dC%d", e.Row, e.Column)
	}
	return fmt.Sprintf("sheet %q, cell %s: %v", e.Sheet, cell, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// =============================================================================
// LAYOUT
// =============================================================================

// Layout describes where keys and locales are found in a sheet.
type Layout struct {
	// KeyColumns is the number of leading columns that make up the key.
	KeyColumns int

	// HeaderRow is the 1-based row holding the column titles.
	HeaderRow int

	// KeySeparator joins the key parts.
	KeySeparator string

	// Delimiter is the CSV field separator.
	Delimiter rune
}

// DefaultLayout returns a single key column, header on the first row.
func DefaultLayout() Layout {
	return Layout{
		KeyColumns:   1,
		HeaderRow:    1,
		KeySeparator: ".",
		Delimiter:    ',',
	}
}

// =============================================================================
// BOOK STRUCTURES
// =============================================================================

// Entry is one translatable key with its text per locale.
type Entry struct {
	// Key is the joined key (homepage.title).
	Key string

	// Values maps locales to the translated text. Blank cells are absent.
	Values map[string]string

	// Row is the 1-based source row, for error reporting.
	Row int
}

// Sheet is one unit of translatable content within a book.
type Sheet struct {
	Name    string
	Locales []string
	Entries []Entry
}

// Workbook is a parsed book file.
type Workbook struct {
	Path   string
	sheets []*Sheet
}

// SheetNames returns the names of the parsed sheets in file order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheets returns every parsed sheet in file order.
func (w *Workbook) Sheets() []*Sheet {
	return w.sheets
}

// Sheet returns the named sheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	for _, s := range w.sheets {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, name, filepath.Base(w.Path))
}

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// Open reads a book file.
//
// PARAMETERS:
//   - path: The path to a .xlsx, .xlsm or .csv file.
//   - layout: Where keys and locales are found.
//
// RETURNS:
//   - The parsed workbook.
//   - An error if the file cannot be read or a sheet is malformed.
func Open(path string, layout Layout) (*Workbook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return openXLSX(path, layout)
	case ".csv":
		return openCSV(path, layout)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, path)
	}
}

// openXLSX reads every visible worksheet of an XLSX file.
// Worksheets whose name starts with "_" hold notes and are skipped.
func openXLSX(path string, layout Layout) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open book file: %w", err)
	}
	defer f.Close()

	wb := &Workbook{Path: path}

	for _, sheetName := range f.GetSheetList() {
		if strings.HasPrefix(sheetName, "_") {
			continue
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
		}

		sheet, err := parseSheet(sheetName, rows, layout)
		if err != nil {
			return nil, err
		}
		wb.sheets = append(wb.sheets, sheet)
	}

	return wb, nil
}

// openCSV reads a CSV file as a single sheet.
func openCSV(path string, layout Layout) (*Workbook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open book file: %w", err)
	}
	defer file.Close()

	rows, err := readCSV(file, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sheet, err := parseSheet(name, rows, layout)
	if err != nil {
		return nil, err
	}

	return &Workbook{Path: path, sheets: []*Sheet{sheet}}, nil
}

// readCSV reads all records, allowing a variable number of fields per row.
func readCSV(r io.Reader, layout Layout) ([][]string, error) {
	reader := csv.NewReader(r)
	if layout.Delimiter != 0 {
		reader.Comma = layout.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// =============================================================================
// SHEET PARSING
// =============================================================================

// parseSheet converts raw rows into a Sheet.
func parseSheet(name string, rows [][]string, layout Layout) (*Sheet, error) {
	if layout.KeyColumns < 1 {
		layout.KeyColumns = 1
	}
	if layout.HeaderRow < 1 {
		layout.HeaderRow = 1
	}
	if layout.KeySeparator == "" {
		layout.KeySeparator = "."
	}

	sheet := &Sheet{Name: name}

	headerIndex := layout.HeaderRow - 1
	if headerIndex >= len(rows) {
		// An empty sheet has nothing to translate.
		return sheet, nil
	}

	// Map locale columns.
	localeColumns := make(map[int]string)
	seen := make(map[string]bool)
	header := rows[headerIndex]
	for col := layout.KeyColumns; col < len(header); col++ {
		title := strings.TrimSpace(header[col])
		if title == "" {
			continue
		}

		l, err := locale.Normalize(title)
		if err != nil {
			return nil, &ParseError{Sheet: name, Row: layout.HeaderRow, Column: col + 1, Err: err}
		}
		if seen[l] {
			return nil, &ParseError{
				Sheet:  name,
				Row:    layout.HeaderRow,
				Column: col + 1,
				Err:    fmt.Errorf("%w %s", ErrDuplicateLocale, l),
			}
		}
		seen[l] = true
		localeColumns[col] = l
		sheet.Locales = append(sheet.Locales, l)
	}

	// Walk the data rows.
	index := make(map[string]int)
	previous := make([]string, layout.KeyColumns)

	for i := headerIndex + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		parts := keyParts(row, previous, layout.KeyColumns)
		if parts == nil {
			continue
		}

		entry := Entry{
			Key:    strings.Join(parts, layout.KeySeparator),
			Values: make(map[string]string),
			Row:    i + 1,
		}
		for col, l := range localeColumns {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				entry.Values[l] = row[col]
			}
		}

		// A later row with the same key overrides the earlier one.
		if pos, ok := index[entry.Key]; ok {
			sheet.Entries[pos] = entry
			continue
		}
		index[entry.Key] = len(sheet.Entries)
		sheet.Entries = append(sheet.Entries, entry)
	}

	return sheet, nil
}

// keyParts extracts the key cells of a row. Empty leading cells inherit the
// value of the previous row; a new value resets every deeper column. Returns
// nil when the last key cell is empty.
func keyParts(row []string, previous []string, keyColumns int) []string {
	last := strings.TrimSpace(cell(row, keyColumns-1))
	if last == "" {
		return nil
	}

	for col := 0; col < keyColumns-1; col++ {
		if value := strings.TrimSpace(cell(row, col)); value != "" {
			previous[col] = value
			for deeper := col + 1; deeper < keyColumns-1; deeper++ {
				previous[deeper] = ""
			}
		}
	}
	previous[keyColumns-1] = last

	var parts []string
	for _, part := range previous {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// cell safely returns a cell value.
func cell(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
