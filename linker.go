// Package tbgllink infers the tabular structure of Trial Balance (TB) and
// General Ledger (GL) spreadsheets and cross-references them: it locates the
// TB header row and classifies its columns without a fixed schema, segments
// the GL into per-account sections with their net-movement summary rows,
// fuzzy-matches TB account names to GL section names, and produces navigable
// cross-reference records for a document writer to apply.
//
// The engine is pure and synchronous: it operates on read-only in-memory
// grids ([Document]), never performs I/O, and rebuilds every derived entity
// on each run. Detection targets typical exports from common accounting
// packages and degrades to documented fallbacks on anything else; the only
// fatal condition is [ErrStructureNotFound].
//
// # Example
//
//	tb := tbgllink.NewDocumentFromStrings([][]string{
//	    {"Account Code", "Account Name", "Debit", "Credit"},
//	    {"1000", "Cash at Bank", "50000", ""},
//	})
//	gl := tbgllink.NewDocumentFromStrings([][]string{
//	    {"Cash at Bank"},
//	    {"01/02/2026", "Invoice 42", "", "", "50000", ""},
//	    {"Net Movement", "", "", "", "50000", "0"},
//	})
//	result, err := tbgllink.Link(tb, gl, tbgllink.DefaultConfig())
package tbgllink

import "context"

// Result is the full output of one linking run.
type Result struct {
	TBStructure TBStructure
	Accounts    []TBAccountRow
	Sections    []GLSection
	Matches     []MatchRecord
	CrossRefs   []CrossReference
	Config      Config
}

// Link runs the heuristic pipeline: TB structure detection, GL segmentation
// and summary location, account matching and cross-reference building.
// It fails only when no TB header row can be found.
func Link(tb, gl Document, cfg Config) (*Result, error) {
	structure, err := DetectTBStructure(tb, cfg)
	if err != nil {
		return nil, err
	}

	sections := BuildGLSections(gl, cfg)
	accounts, structure := ResolveTBAccounts(tb, structure)
	matches := MatchAccounts(accounts, sections, cfg)

	return &Result{
		TBStructure: structure,
		Accounts:    accounts,
		Sections:    sections,
		Matches:     matches,
		CrossRefs:   BuildCrossReferences(accounts, matches, cfg),
		Config:      cfg,
	}, nil
}

// Analyzer is an optional external structure source (typically LLM-backed)
// that can replace individual heuristic stages. Each method either returns a
// usable result or an error; on error the caller falls back to the heuristic
// for that stage only.
type Analyzer interface {
	// AnalyzeTB returns the TB structure, or an error to fall back.
	AnalyzeTB(ctx context.Context, tb Document) (TBStructure, error)
	// AnalyzeGL returns the GL section headers, or an error to fall back.
	AnalyzeGL(ctx context.Context, gl Document) ([]SectionHeader, error)
	// MatchAccounts maps TB rows to GL section names, or returns an error
	// to fall back.
	MatchAccounts(ctx context.Context, accounts []TBAccountRow, sectionNames []string) (map[int]string, error)
}

// LinkWithAnalyzer runs the pipeline with an external structure source.
// Analyzer output replaces the corresponding heuristic stage when valid;
// any stage the analyzer cannot serve degrades to the heuristic path, so a
// nil or completely unavailable analyzer behaves exactly like Link.
func LinkWithAnalyzer(ctx context.Context, tb, gl Document, cfg Config, analyzer Analyzer) (*Result, error) {
	if analyzer == nil {
		return Link(tb, gl, cfg)
	}

	structure, err := analyzer.AnalyzeTB(ctx, tb)
	if err != nil || !structure.Valid() {
		structure, err = DetectTBStructure(tb, cfg)
		if err != nil {
			return nil, err
		}
	}

	headers, err := analyzer.AnalyzeGL(ctx, gl)
	if err != nil || len(headers) == 0 {
		headers = SegmentGL(gl, cfg)
	}
	sections := BuildGLSectionsFromHeaders(gl, headers, cfg)

	accounts, structure := ResolveTBAccounts(tb, structure)

	matches := analyzerMatches(ctx, analyzer, accounts, sections)
	if matches == nil {
		matches = MatchAccounts(accounts, sections, cfg)
	}

	return &Result{
		TBStructure: structure,
		Accounts:    accounts,
		Sections:    sections,
		Matches:     matches,
		CrossRefs:   BuildCrossReferences(accounts, matches, cfg),
		Config:      cfg,
	}, nil
}

// analyzerMatches converts analyzer match candidates into records, keeping
// the same data-model contract as the heuristic matcher. Returns nil when
// the analyzer cannot serve the stage.
func analyzerMatches(ctx context.Context, analyzer Analyzer, accounts []TBAccountRow, sections []GLSection) []MatchRecord {
	names := make([]string, len(sections))
	byName := make(map[string]GLSection, len(sections))
	for i, s := range sections {
		names[i] = s.AccountName
		if _, seen := byName[s.AccountName]; !seen {
			byName[s.AccountName] = s
		}
	}

	candidates, err := analyzer.MatchAccounts(ctx, accounts, names)
	if err != nil || len(candidates) == 0 {
		return nil
	}

	var records []MatchRecord
	for _, account := range accounts {
		name, ok := candidates[account.Row]
		if !ok {
			continue
		}
		section, ok := byName[name]
		if !ok {
			continue
		}
		records = append(records, MatchRecord{
			TBRow:       account.Row,
			AccountName: account.Name,
			Section:     section,
			Score:       1.0,
		})
	}
	if len(records) == 0 {
		return nil
	}
	return records
}
