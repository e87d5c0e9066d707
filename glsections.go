package tbgllink

import "strings"

// SectionHeader is a GL account header located during segmentation.
type SectionHeader struct {
	Name      string
	HeaderRow int
}

// GLSection is one per-account section of the General Ledger. When no
// summary row exists inside the section, SummaryRow/SummaryCol are 0,
// Value is nil and Target falls back to the section's header cell.
type GLSection struct {
	AccountName string
	HeaderRow   int
	SummaryRow  int
	SummaryCol  int
	Target      CellRef
	Value       *float64
}

// SegmentGL partitions the General Ledger into contiguous per-account
// sections by locating account-header rows. It never fails: a grid with no
// headers yields an empty slice. Sections are ordered by header row and a
// section's range runs to the next section's header (or the document end).
func SegmentGL(doc Document, cfg Config) []SectionHeader {
	var headers []SectionHeader
	for row := 1; row <= doc.Rows(); row++ {
		cell := doc.Cell(row, 1)
		if !cell.IsText() {
			continue
		}
		name := strings.TrimSpace(cell.Text)
		if len(name) <= 2 {
			continue
		}
		if isAccountHeader(doc, row, cfg) {
			headers = append(headers, SectionHeader{Name: name, HeaderRow: row})
		}
	}
	return headers
}

// isAccountHeader applies the header-row test: the rest of the row up to
// HeaderEmptyWindow must be empty (headers carry no amounts or dates), and a
// transaction must follow within HeaderLookaheadRows rows.
func isAccountHeader(doc Document, row int, cfg Config) bool {
	if row >= doc.Rows() {
		return false
	}

	lastEmptyCol := min(cfg.HeaderEmptyWindow, doc.Cols())
	for col := 2; col <= lastEmptyCol; col++ {
		if !doc.Cell(row, col).IsEmpty() {
			return false
		}
	}

	lastLookRow := min(row+cfg.HeaderLookaheadRows, doc.Rows())
	for check := row + 1; check <= lastLookRow; check++ {
		if !doc.Cell(check, 1).IsEmpty() {
			return true
		}
	}
	return false
}

// BuildGLSections segments the GL and locates each section's summary row.
// Sections without a summary row keep the header cell as target and a nil
// value.
func BuildGLSections(doc Document, cfg Config) []GLSection {
	return buildSections(doc, SegmentGL(doc, cfg), cfg)
}

// BuildGLSectionsFromHeaders completes externally supplied section headers
// (e.g. from an LLM analyzer) with heuristic summary location, applying the
// same contiguity and fallback rules as the fully heuristic path.
func BuildGLSectionsFromHeaders(doc Document, headers []SectionHeader, cfg Config) []GLSection {
	return buildSections(doc, headers, cfg)
}

func buildSections(doc Document, headers []SectionHeader, cfg Config) []GLSection {
	if len(headers) == 0 {
		return nil
	}

	debitCol, creditCol := findDebitCreditColumns(doc, cfg, headers[0].HeaderRow)

	sections := make([]GLSection, 0, len(headers))
	for i, h := range headers {
		nextHeaderRow := 0
		if i+1 < len(headers) {
			nextHeaderRow = headers[i+1].HeaderRow
		}

		section := GLSection{
			AccountName: h.Name,
			HeaderRow:   h.HeaderRow,
			Target:      CellRef{Row: h.HeaderRow, Col: 1},
		}

		if info := locateSummary(doc, h.HeaderRow, nextHeaderRow, debitCol, creditCol, cfg); info != nil {
			value := info.Value
			section.SummaryRow = info.Row
			section.SummaryCol = info.Col
			section.Target = CellRef{Row: info.Row, Col: info.Col}
			section.Value = &value
		}

		sections = append(sections, section)
	}
	return sections
}
