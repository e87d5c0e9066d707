// Package writer applies linking results to an Excel workbook: it copies the
// General Ledger grid into the Trial Balance workbook as a dedicated sheet
// and adds a reference column of in-workbook hyperlinks next to the TB
// amount columns.
package writer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tuteke2023/tbgllink"
	"github.com/tuteke2023/tbgllink/loader"
)

// LinkedSheetName is the sheet the GL grid is copied into. Hyperlinks in the
// reference column point at cells of this sheet.
const LinkedSheetName = "General Ledger Detail"

// ReferenceHeader is the label written above the reference column.
const ReferenceHeader = "GL Reference"

// Apply writes the linking results into an open TB workbook: the GL grid
// becomes the LinkedSheetName sheet (replacing any previous run's copy) and
// each resolved TB row gets a hyperlink or "N/A" in the reference column of
// tbSheet.
func Apply(f *excelize.File, tbSheet string, gl tbgllink.Document, res *tbgllink.Result) error {
	if err := writeDetailSheet(f, gl); err != nil {
		return err
	}
	return writeReferenceColumn(f, tbSheet, res)
}

// writeDetailSheet copies the GL grid into the workbook. Numeric cells are
// written as numbers so Excel keeps them calculable.
func writeDetailSheet(f *excelize.File, gl tbgllink.Document) error {
	if idx, _ := f.GetSheetIndex(LinkedSheetName); idx >= 0 {
		if err := f.DeleteSheet(LinkedSheetName); err != nil {
			return fmt.Errorf("failed to remove stale detail sheet: %w", err)
		}
	}
	if _, err := f.NewSheet(LinkedSheetName); err != nil {
		return fmt.Errorf("failed to create detail sheet: %w", err)
	}

	for row := 1; row <= gl.Rows(); row++ {
		for col := 1; col <= gl.Cols(); col++ {
			cell := gl.Cell(row, col)
			if cell.IsEmpty() {
				continue
			}
			name, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return fmt.Errorf("invalid detail cell (%d,%d): %w", row, col, err)
			}
			var value any
			if cell.Kind == tbgllink.CellNumber {
				value = cell.Number
			} else {
				value = cell.Text
			}
			if err := f.SetCellValue(LinkedSheetName, name, value); err != nil {
				return fmt.Errorf("failed to write detail cell %s: %w", name, err)
			}
		}
	}
	return nil
}

// writeReferenceColumn adds the header and one entry per cross-reference.
// Matched rows get a HYPERLINK formula targeting the detail sheet; unmatched
// rows get the literal marker.
func writeReferenceColumn(f *excelize.File, tbSheet string, res *tbgllink.Result) error {
	refCol := referenceColumn(res.TBStructure)

	headerCell, err := excelize.CoordinatesToCellName(refCol, res.TBStructure.HeaderRow)
	if err != nil {
		return fmt.Errorf("invalid reference header cell: %w", err)
	}
	if err := f.SetCellValue(tbSheet, headerCell, ReferenceHeader); err != nil {
		return fmt.Errorf("failed to write reference header: %w", err)
	}

	for _, ref := range res.CrossRefs {
		cell, err := excelize.CoordinatesToCellName(refCol, ref.TBRow)
		if err != nil {
			return fmt.Errorf("invalid reference cell for row %d: %w", ref.TBRow, err)
		}

		if !ref.Matched {
			if err := f.SetCellValue(tbSheet, cell, ref.Display); err != nil {
				return fmt.Errorf("failed to write marker for row %d: %w", ref.TBRow, err)
			}
			continue
		}

		target, err := excelize.CoordinatesToCellName(ref.Target.Col, ref.Target.Row)
		if err != nil {
			return fmt.Errorf("invalid link target for row %d: %w", ref.TBRow, err)
		}
		formula := fmt.Sprintf(`HYPERLINK("#'%s'!%s","%s")`, LinkedSheetName, target, ref.Display)
		if err := f.SetCellFormula(tbSheet, cell, formula); err != nil {
			return fmt.Errorf("failed to write link for row %d: %w", ref.TBRow, err)
		}
	}
	return nil
}

// referenceColumn picks where the reference column goes: one past the
// rightmost known amount column, or one past the account columns when no
// amount column was detected.
func referenceColumn(s tbgllink.TBStructure) int {
	last := max(s.DebitCol, s.CreditCol)
	if last == 0 {
		last = max(s.AccountCodeCol, s.AccountNameCol)
	}
	return last + 1
}

// WriteLinkedFile loads the TB workbook at tbPath, applies the results
// against the GL grid from glPath and saves the combined workbook to
// outPath. The TB file must be XLSX; the GL file may be any loadable
// format. Column widths carry over to the detail sheet when the GL source
// is also XLSX.
func WriteLinkedFile(tbPath, glPath, outPath string, res *tbgllink.Result) error {
	f, err := excelize.OpenFile(tbPath)
	if err != nil {
		return fmt.Errorf("failed to open TB workbook: %w", err)
	}
	defer f.Close()

	glWorkbook, err := loader.Open(glPath)
	if err != nil {
		return fmt.Errorf("failed to load GL workbook: %w", err)
	}
	glSheet := glWorkbook.GLSheet()
	if glSheet == nil {
		return fmt.Errorf("no sheets in GL workbook %s", glPath)
	}

	tbSheet := findSheetName(f, loader.TBSheetKeywords)
	if err := Apply(f, tbSheet, glSheet.Doc, res); err != nil {
		return err
	}

	if ft, _ := loader.DetectFileType(glPath); ft == loader.XLSX {
		if err := copyColumnWidths(glPath, glSheet.Name, f, glSheet.Doc.Cols()); err != nil {
			return err
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("failed to save linked workbook: %w", err)
	}
	return nil
}

// findSheetName mirrors the loader's keyword sheet selection on an open
// excelize file.
func findSheetName(f *excelize.File, keywords []string) string {
	names := f.GetSheetList()
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return name
			}
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return "Sheet1"
}

// copyColumnWidths carries the GL source's column widths onto the detail
// sheet so the copy reads like the original.
func copyColumnWidths(glPath, glSheet string, dst *excelize.File, cols int) error {
	src, err := excelize.OpenFile(glPath)
	if err != nil {
		return fmt.Errorf("failed to reopen GL workbook: %w", err)
	}
	defer src.Close()

	for col := 1; col <= cols; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return fmt.Errorf("invalid column %d: %w", col, err)
		}
		width, err := src.GetColWidth(glSheet, name)
		if err != nil {
			continue
		}
		if err := dst.SetColWidth(LinkedSheetName, name, name, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}
	return nil
}
