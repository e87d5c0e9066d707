package tbgllink

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// UnmatchedMarker is written verbatim for TB rows whose account resolved to
// a name but matched no GL section.
const UnmatchedMarker = "N/A"

// headerDisplay is the display text used under the header-target policy.
const headerDisplay = "View Details"

// CrossReference is one navigable link from a TB row to a GL cell. For
// unmatched rows Matched is false, Target is zero and Display holds the
// UnmatchedMarker.
type CrossReference struct {
	TBRow     int
	TBAccount string
	GLAccount string
	Target    CellRef
	Display   string
	Matched   bool
}

// BuildCrossReferences combines resolved TB accounts and match records into
// the final cross-reference list. Matched rows point at the section target
// chosen by the configured policy; unmatched rows with a resolvable account
// name yield the "N/A" marker; rows that resolved no name at all were never
// part of accounts and so produce nothing.
func BuildCrossReferences(accounts []TBAccountRow, matches []MatchRecord, cfg Config) []CrossReference {
	matchByRow := make(map[int]MatchRecord, len(matches))
	for _, m := range matches {
		matchByRow[m.TBRow] = m
	}

	refs := make([]CrossReference, 0, len(accounts))
	for _, account := range accounts {
		m, ok := matchByRow[account.Row]
		if !ok {
			refs = append(refs, CrossReference{
				TBRow:     account.Row,
				TBAccount: account.Name,
				Display:   UnmatchedMarker,
			})
			continue
		}

		ref := CrossReference{
			TBRow:     account.Row,
			TBAccount: account.Name,
			GLAccount: m.Section.AccountName,
			Matched:   true,
		}
		switch cfg.Target {
		case TargetHeader:
			ref.Target = CellRef{Row: m.Section.HeaderRow, Col: 1}
			ref.Display = headerDisplay
		default:
			ref.Target = m.Section.Target
			ref.Display = FormatAmount(m.Section.Value)
		}
		refs = append(refs, ref)
	}
	return refs
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a summary value for display: nil or zero becomes
// "0", whole amounts are thousands-grouped integers ("50,000"), fractional
// amounts are thousands-grouped with two decimals ("1,234.50").
func FormatAmount(value *float64) string {
	if value == nil || *value == 0 {
		return "0"
	}
	v := *value
	if v == math.Trunc(v) {
		return amountPrinter.Sprintf("%d", int64(v))
	}
	return amountPrinter.Sprintf("%.2f", v)
}
