package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"cpsatlas/internal/errors"
)

// Table is a header-addressed view over a parsed CSV or Excel sheet.
// Rows are raw cell strings; ragged rows are allowed and short rows read
// as empty cells.
type Table struct {
	Source  string
	Headers []string
	Rows    [][]string

	columnIndex map[string]int
}

// ReadFile reads a tabular file, dispatching on the file extension.
// Supported extensions are .csv, .xlsx and .xls.
func ReadFile(filePath string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return readCSV(filePath)
	case ".xlsx", ".xls":
		return readWorkbook(filePath)
	default:
		return nil, errors.NewValidationError(
			fmt.Sprintf("unsupported file type %q", filepath.Ext(filePath))).
			WithContext("file", filePath)
	}
}

// readCSV reads a CSV file into a Table. Ragged rows are accepted; a
// leading UTF-8 BOM on the header is stripped.
func readCSV(filePath string) (*Table, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.NewIOError("failed to open file", err).
			WithContext("file", filePath)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to parse CSV", err).
			WithContext("file", filePath)
	}

	return newTable(filePath, records)
}

// readWorkbook reads the first sheet of an Excel workbook into a Table
func readWorkbook(filePath string) (*Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.NewIOError("failed to open workbook", err).
			WithContext("file", filePath)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError("workbook has no sheets", nil).
			WithContext("file", filePath)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParsingError("failed to read sheet", err).
			WithContext("file", filePath).
			WithContext("sheet", sheets[0])
	}

	return newTable(filePath, rows)
}

// newTable builds a Table from raw records, taking the first row as the
// header row.
func newTable(source string, records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.NewParsingError("file has no header row", nil).
			WithContext("file", source)
	}

	headers := make([]string, len(records[0]))
	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		h = strings.TrimSpace(h)
		headers[i] = h
		if _, exists := index[h]; !exists && h != "" {
			index[h] = i
		}
	}

	return &Table{
		Source:      source,
		Headers:     headers,
		Rows:        records[1:],
		columnIndex: index,
	}, nil
}

// Column returns the index of the named header column
func (t *Table) Column(name string) (int, bool) {
	idx, ok := t.columnIndex[name]
	return idx, ok
}

// RequireColumns verifies all named columns are present. Missing columns
// are reported together so a malformed file fails with one message.
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.columnIndex[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.NewValidationError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))).
			WithContext("file", t.Source)
	}
	return nil
}

// Cell returns the trimmed value at the given row and column index, or
// an empty string when the row is too short.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Line converts a zero-based data row index to its one-based file line
// number, counting the header.
func (t *Table) Line(rowIdx int) int {
	return rowIdx + 2
}

// ParseFloat parses a numeric cell, tolerating currency symbols,
// thousands separators and surrounding whitespace. Blank cells report
// ok=false rather than an error.
func ParseFloat(s string) (float64, bool) {
	s = cleanNumeric(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloatPtr parses a numeric cell into a pointer, with nil standing
// for a missing value.
func ParseFloatPtr(s string) *float64 {
	v, ok := ParseFloat(s)
	if !ok {
		return nil
	}
	return &v
}

// ParseInt parses an integer cell, tolerating thousands separators.
// Cells holding a whole-number float (a common Excel artifact) parse as
// their integer value.
func ParseInt(s string) (int, bool) {
	s = cleanNumeric(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func cleanNumeric(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
