package tbgllink

import "strings"

// summaryLabel is the text marking a GL section's net-movement row.
const summaryLabel = "net movement"

// SummaryInfo is a located summary row and the debit/credit cell carrying
// its value.
type SummaryInfo struct {
	Row   int
	Col   int
	Value float64
}

// findDebitCreditColumns discovers the GL debit and credit column positions
// by scanning the header area (rows 1..HeaderScanRows) and, when nearRow is
// non-zero, the band from 5 rows above to 9 rows below it. The first text
// cell containing "debit"/"credit" wins for each. Missing columns fall back
// to the configured defaults; discovery itself never fails.
func findDebitCreditColumns(doc Document, cfg Config, nearRow int) (debitCol, creditCol int) {
	rows := searchRows(doc, cfg, nearRow)
	maxCol := min(cfg.HeaderScanCols, doc.Cols())

	for _, row := range rows {
		for col := 1; col <= maxCol; col++ {
			cell := doc.Cell(row, col)
			if !cell.IsText() {
				continue
			}
			value := strings.ToLower(strings.TrimSpace(cell.Text))
			if strings.Contains(value, "debit") && debitCol == 0 {
				debitCol = col
			} else if strings.Contains(value, "credit") && creditCol == 0 {
				creditCol = col
			}
		}
		if debitCol != 0 && creditCol != 0 {
			break
		}
	}

	if debitCol == 0 {
		debitCol = cfg.FallbackDebitCol
	}
	if creditCol == 0 {
		creditCol = cfg.FallbackCreditCol
	}
	return debitCol, creditCol
}

func searchRows(doc Document, cfg Config, nearRow int) []int {
	rows := make([]int, 0, cfg.HeaderScanRows+15)
	for row := 1; row <= min(cfg.HeaderScanRows, doc.Rows()); row++ {
		rows = append(rows, row)
	}
	if nearRow > 0 {
		for row := max(1, nearRow-5); row < min(nearRow+10, doc.Rows()+1); row++ {
			rows = append(rows, row)
		}
	}
	return rows
}

// locateSummary searches a section's row range for its net-movement row and
// picks the cell holding the net figure. The range runs from the row after
// the header to the next section's header (exclusive), capped at
// SummaryScanLimit rows when the section is the last one. Returns nil when
// no summary row exists in range.
func locateSummary(doc Document, headerRow, nextHeaderRow, debitCol, creditCol int, cfg Config) *SummaryInfo {
	end := headerRow + cfg.SummaryScanLimit
	if nextHeaderRow > 0 {
		end = nextHeaderRow
	}
	end = min(end, doc.Rows()+1)

	labelCols := min(cfg.SummaryLabelCols, doc.Cols())
	for row := headerRow + 1; row < end; row++ {
		for col := 1; col <= labelCols; col++ {
			cell := doc.Cell(row, col)
			if !cell.IsText() {
				continue
			}
			if !strings.Contains(strings.ToLower(cell.Text), summaryLabel) {
				continue
			}
			valueCol, value := nonZeroColumn(doc, row, debitCol, creditCol)
			return &SummaryInfo{Row: row, Col: valueCol, Value: value}
		}
	}
	return nil
}

// nonZeroColumn picks which of the debit/credit cells carries the summary
// value. Credit wins when non-zero (the net typically shows there), then
// debit; when both are zero the debit column is reported with value 0.
func nonZeroColumn(doc Document, row, debitCol, creditCol int) (int, float64) {
	debit := doc.Cell(row, debitCol).AsNumber()
	credit := doc.Cell(row, creditCol).AsNumber()

	switch {
	case credit != 0:
		return creditCol, credit
	case debit != 0:
		return debitCol, debit
	default:
		return debitCol, 0
	}
}
