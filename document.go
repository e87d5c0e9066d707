package tbgllink

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellKind identifies the closed set of cell value kinds the engine
// understands. Anything the loader cannot classify more specifically is text.
type CellKind int

const (
	// CellEmpty represents an empty cell.
	CellEmpty CellKind = iota
	// CellText represents a text cell.
	CellText
	// CellNumber represents a numeric cell.
	CellNumber
	// CellDate represents a date-like text cell (e.g. "31/01/2026").
	CellDate
)

// CellValue is a single spreadsheet cell value. Coercion rules live here so
// every component treats messy input identically: a non-numeric cell coerced
// to a number is 0, never an error.
type CellValue struct {
	Kind   CellKind
	Text   string
	Number float64
}

// String returns the natural string form of the value.
func (c CellValue) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText, CellDate:
		return c.Text
	default:
		return ""
	}
}

// IsEmpty reports whether the cell holds no value.
func (c CellValue) IsEmpty() bool { return c.Kind == CellEmpty }

// IsText reports whether the cell holds text (date-like text included).
func (c CellValue) IsText() bool { return c.Kind == CellText || c.Kind == CellDate }

// AsNumber coerces the cell to a number. Empty cells, text that does not
// parse as a number, and anything else irregular all coerce to 0.
func (c CellValue) AsNumber() float64 {
	switch c.Kind {
	case CellNumber:
		return c.Number
	case CellText, CellDate:
		s := strings.ReplaceAll(strings.TrimSpace(c.Text), ",", "")
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
	regexp.MustCompile(`^\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
}

// isDateLike checks if the string looks like a date.
func isDateLike(s string) bool {
	for _, p := range datePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Classify converts a raw string (as produced by file loaders) into a
// CellValue. Integers and floats become numbers, date-like strings become
// dates, everything else non-empty is text.
func Classify(raw string) CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CellValue{Kind: CellEmpty}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return CellValue{Kind: CellNumber, Number: f}
	}
	if isDateLike(trimmed) {
		return CellValue{Kind: CellDate, Text: trimmed}
	}
	return CellValue{Kind: CellText, Text: trimmed}
}

// Number returns a numeric CellValue.
func Number(f float64) CellValue { return CellValue{Kind: CellNumber, Number: f} }

// Text returns a text CellValue. Empty strings become empty cells.
func Text(s string) CellValue {
	if strings.TrimSpace(s) == "" {
		return CellValue{Kind: CellEmpty}
	}
	return CellValue{Kind: CellText, Text: s}
}

// Document is a read-only grid over one spreadsheet. Rows and columns are
// 1-indexed to match spreadsheet convention; out-of-range lookups return an
// empty cell. The engine never mutates a Document.
type Document interface {
	// Rows returns the number of rows in the grid.
	Rows() int
	// Cols returns the number of columns in the grid.
	Cols() int
	// Cell returns the value at the 1-indexed (row, col) position.
	Cell(row, col int) CellValue
}

// MemoryDocument is an immutable in-memory Document.
type MemoryDocument struct {
	cells [][]CellValue
	cols  int
}

// NewMemoryDocument builds a document from a row-major grid of cells.
// Ragged rows are allowed; the column count is the widest row.
func NewMemoryDocument(cells [][]CellValue) *MemoryDocument {
	cols := 0
	copied := make([][]CellValue, len(cells))
	for i, row := range cells {
		copied[i] = append([]CellValue(nil), row...)
		if len(row) > cols {
			cols = len(row)
		}
	}
	return &MemoryDocument{cells: copied, cols: cols}
}

// NewDocumentFromStrings builds a document from raw string rows, classifying
// every value via Classify. This is the entry point loaders use.
func NewDocumentFromStrings(rows [][]string) *MemoryDocument {
	cells := make([][]CellValue, len(rows))
	for i, row := range rows {
		cells[i] = make([]CellValue, len(row))
		for j, raw := range row {
			cells[i][j] = Classify(raw)
		}
	}
	return NewMemoryDocument(cells)
}

// Rows returns the number of rows.
func (d *MemoryDocument) Rows() int { return len(d.cells) }

// Cols returns the number of columns.
func (d *MemoryDocument) Cols() int { return d.cols }

// Cell returns the value at the 1-indexed (row, col) position.
func (d *MemoryDocument) Cell(row, col int) CellValue {
	if row < 1 || row > len(d.cells) || col < 1 {
		return CellValue{}
	}
	r := d.cells[row-1]
	if col > len(r) {
		return CellValue{}
	}
	return r[col-1]
}

// CellRef is a 1-indexed (row, column) cell position.
type CellRef struct {
	Row int
	Col int
}

// IsZero reports whether the reference is unset.
func (c CellRef) IsZero() bool { return c.Row == 0 && c.Col == 0 }

// String renders the reference in A1 notation (e.g. "F9846").
func (c CellRef) String() string {
	if c.IsZero() {
		return ""
	}
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return ""
	}
	return name
}
