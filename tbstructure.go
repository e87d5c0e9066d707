package tbgllink

import "strings"

// TBStructure describes the detected layout of a Trial Balance sheet.
// Column fields are 0 when the corresponding column was not found.
type TBStructure struct {
	HeaderRow      int
	AccountCodeCol int
	AccountNameCol int
	DebitCol       int
	CreditCol      int
	DataStartRow   int
}

// hasAccountColumn reports whether at least one account column was found.
func (s TBStructure) hasAccountColumn() bool {
	return s.AccountCodeCol != 0 || s.AccountNameCol != 0
}

// hasAmountColumn reports whether at least one of debit/credit was found.
func (s TBStructure) hasAmountColumn() bool {
	return s.DebitCol != 0 || s.CreditCol != 0
}

// Valid reports whether the structure satisfies the detection contract.
func (s TBStructure) Valid() bool {
	return s.HeaderRow != 0 && s.hasAccountColumn() && s.hasAmountColumn() &&
		s.DataStartRow == s.HeaderRow+1
}

// DetectTBStructure scans the Trial Balance for its header row and classifies
// columns by keyword. The scan covers rows 1..HeaderScanRows and columns
// 1..HeaderScanCols; the first row at which a header row plus an account
// column plus an amount column have all been seen wins, with no backtracking.
// Within a row, later columns matching the same keyword overwrite earlier
// ones. Returns ErrStructureNotFound when the window is exhausted.
func DetectTBStructure(doc Document, cfg Config) (TBStructure, error) {
	var s TBStructure

	maxRow := min(cfg.HeaderScanRows, doc.Rows())
	maxCol := min(cfg.HeaderScanCols, doc.Cols())

	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			cell := doc.Cell(row, col)
			if !cell.IsText() {
				continue
			}
			value := strings.ToLower(cell.Text)
			switch {
			case strings.Contains(value, "account") || strings.Contains(value, "acct") || strings.Contains(value, "code"):
				if strings.Contains(value, "name") || strings.Contains(value, "description") {
					s.AccountNameCol = col
				} else {
					s.AccountCodeCol = col
				}
				s.HeaderRow = row
			case strings.Contains(value, "debit"):
				s.DebitCol = col
			case strings.Contains(value, "credit"):
				s.CreditCol = col
			}
		}

		if s.HeaderRow != 0 && s.hasAccountColumn() && s.hasAmountColumn() {
			s.DataStartRow = s.HeaderRow + 1
			return s, nil
		}
	}

	return TBStructure{}, ErrStructureNotFound
}

// TBAccountRow is one Trial Balance data row with a resolved account name.
type TBAccountRow struct {
	Row  int
	Name string
}

// ResolveTBAccounts extracts the account name of every TB data row. When the
// structure has no account-name column, adjacent columns around the account
// code are probed (offsets +1, -1, +2, -2) for a text value longer than three
// characters that is not purely numeric; the first hit backfills
// AccountNameCol on the returned structure for the rest of the run. Rows with
// no resolvable name are omitted.
func ResolveTBAccounts(doc Document, s TBStructure) ([]TBAccountRow, TBStructure) {
	var accounts []TBAccountRow

	for row := s.DataStartRow; row <= doc.Rows(); row++ {
		var name string
		resolved := false

		if s.AccountNameCol != 0 {
			cell := doc.Cell(row, s.AccountNameCol)
			if cell.IsText() {
				name = cell.Text
				resolved = true
			} else if !cell.IsEmpty() && cell.AsNumber() != 0 {
				// A numeric value in the name column is not an
				// account name and blocks further probing.
				continue
			}
		}

		if !resolved {
			base := s.AccountCodeCol
			if base == 0 {
				base = 1
			}
			for _, offset := range []int{1, -1, 2, -2} {
				col := base + offset
				if col < 1 || col > doc.Cols() {
					continue
				}
				cell := doc.Cell(row, col)
				if !cell.IsText() || len(cell.Text) <= 3 {
					continue
				}
				if isNumericCode(cell.Text) {
					continue
				}
				name = cell.Text
				resolved = true
				if s.AccountNameCol == 0 {
					s.AccountNameCol = col
				}
				break
			}
		}

		if resolved {
			accounts = append(accounts, TBAccountRow{Row: row, Name: strings.TrimSpace(name)})
		}
	}

	return accounts, s
}

// isNumericCode reports whether the value is purely numeric once "." and "-"
// are stripped, i.e. an account code rather than a name.
func isNumericCode(value string) bool {
	stripped := strings.NewReplacer(".", "", "-", "").Replace(value)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
