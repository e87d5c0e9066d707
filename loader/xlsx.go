package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/tuteke2023/tbgllink"
)

// loadXLSX reads an Excel .xlsx workbook with all its sheets.
func loadXLSX(reader io.Reader) (*Workbook, error) {
	// excelize needs the whole archive in memory
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX data: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, errors.New("no sheets found in XLSX file")
	}

	wb := &Workbook{Sheets: make([]Sheet, 0, len(names))}
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{
			Name: name,
			Doc:  tbgllink.NewDocumentFromStrings(rows),
		})
	}
	return wb, nil
}

// loadXLS reads a legacy Excel .xls workbook with all its sheets.
func loadXLS(reader io.Reader) (*Workbook, error) {
	// the BIFF reader needs a seekable source
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read XLS data: %w", err)
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLS: %w", err)
	}

	sheets := workbook.GetSheets()
	if len(sheets) == 0 {
		return nil, errors.New("no sheets found in XLS file")
	}

	wb := &Workbook{Sheets: make([]Sheet, 0, len(sheets))}
	for i := range sheets {
		sheet := &sheets[i]
		var grid [][]string
		for _, row := range sheet.GetRows() {
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			grid = append(grid, cells)
		}
		wb.Sheets = append(wb.Sheets, Sheet{
			Name: sheet.GetName(),
			Doc:  tbgllink.NewDocumentFromStrings(grid),
		})
	}
	return wb, nil
}
