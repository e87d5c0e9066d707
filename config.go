package tbgllink

// TargetPolicy selects what a cross-reference points at.
type TargetPolicy int

const (
	// TargetNetMovement links each matched TB row to the non-zero cell of
	// the GL section's Net Movement row and displays its value.
	TargetNetMovement TargetPolicy = iota
	// TargetHeader links each matched TB row to the GL section's header
	// cell and displays "View Details".
	TargetHeader
)

// Config is the full tuning surface of the engine. Zero values are invalid;
// start from DefaultConfig and override fields as needed.
type Config struct {
	// MatchThreshold is the minimum similarity for an accepted match.
	// The comparison is strict: a score equal to the threshold is rejected.
	MatchThreshold float64

	// HeaderScanRows and HeaderScanCols bound the TB header search window
	// and the GL debit/credit column search window.
	HeaderScanRows int
	HeaderScanCols int

	// HeaderEmptyWindow is the last column index that must be empty for a
	// GL row to qualify as an account header (columns 2..HeaderEmptyWindow).
	HeaderEmptyWindow int

	// HeaderLookaheadRows is how many rows below a candidate GL header are
	// checked for a following transaction (any non-empty column-1 cell).
	HeaderLookaheadRows int

	// SummaryScanLimit caps the summary-row search below a section header
	// when no next section bounds it.
	SummaryScanLimit int

	// SummaryLabelCols is how many leading columns are scanned for the
	// "net movement" label inside a section.
	SummaryLabelCols int

	// FallbackDebitCol and FallbackCreditCol are used when no debit/credit
	// headers are found in the GL (common positions E and F).
	FallbackDebitCol  int
	FallbackCreditCol int

	// Target selects the cross-reference target policy.
	Target TargetPolicy
}

// DefaultConfig returns the configuration matching typical exports from
// common accounting packages.
func DefaultConfig() Config {
	return Config{
		MatchThreshold:      0.8,
		HeaderScanRows:      20,
		HeaderScanCols:      20,
		HeaderEmptyWindow:   4,
		HeaderLookaheadRows: 4,
		SummaryScanLimit:    500,
		SummaryLabelCols:    4,
		FallbackDebitCol:    5,
		FallbackCreditCol:   6,
	}
}
