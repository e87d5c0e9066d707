package llm

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tuteke2023/tbgllink"
)

// Preview size defaults, chosen to keep prompts small while still showing
// enough structure for the model to work with.
const (
	previewTBRows = 30
	previewTBCols = 12
	previewGLRows = 50
	previewGLCols = 10
)

// GridPreview renders the top-left window of a grid as CSV with a leading
// Row column and spreadsheet column letters, the shape structure prompts
// expect. A truncation note is appended when the grid exceeds the window.
func GridPreview(doc tbgllink.Document, maxRows, maxCols int) string {
	rows := min(maxRows, doc.Rows())
	cols := min(maxCols, doc.Cols())

	var b strings.Builder
	b.WriteString("Row")
	for col := 1; col <= cols; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			name = fmt.Sprintf("C%d", col)
		}
		b.WriteString(",")
		b.WriteString(name)
	}
	b.WriteString("\n")

	for row := 1; row <= rows; row++ {
		fmt.Fprintf(&b, "%d", row)
		for col := 1; col <= cols; col++ {
			b.WriteString(",")
			b.WriteString(csvEscape(doc.Cell(row, col).String()))
		}
		b.WriteString("\n")
	}

	if doc.Rows() > rows || doc.Cols() > cols {
		fmt.Fprintf(&b, "... (truncated, full sheet is %d rows x %d columns)\n", doc.Rows(), doc.Cols())
	}
	return b.String()
}

func csvEscape(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
