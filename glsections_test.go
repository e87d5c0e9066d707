package tbgllink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerFixture is a two-section GL export in the common layout: account
// name headers in column 1, amounts in columns 5 and 6.
func ledgerFixture() *MemoryDocument {
	return NewDocumentFromStrings([][]string{
		{"Cash at Bank"},
		{"01/02/2026", "Invoice 42", "", "", "50000", ""},
		{"Net Movement", "", "", "", "50000", "0"},
		{},
		{"Sales Revenue"},
		{"02/02/2026", "Sale 7", "", "", "", "30000"},
		{"Net Movement", "", "", "", "0", "30000"},
		{},
	})
}

// ledgerConfig widens the header empty window past the amount columns so
// summary rows with amounts do not read as account headers.
func ledgerConfig() Config {
	cfg := DefaultConfig()
	cfg.HeaderEmptyWindow = 6
	return cfg
}

func TestSegmentGL(t *testing.T) {
	t.Parallel()

	t.Run("finds account headers in order", func(t *testing.T) {
		t.Parallel()

		headers := SegmentGL(ledgerFixture(), ledgerConfig())

		require.Len(t, headers, 2)
		assert.Equal(t, SectionHeader{Name: "Cash at Bank", HeaderRow: 1}, headers[0])
		assert.Equal(t, SectionHeader{Name: "Sales Revenue", HeaderRow: 5}, headers[1])
	})

	t.Run("short values are not headers", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"GL"},
			{"01/02/2026", "txn", "", "", "10", ""},
		})

		assert.Empty(t, SegmentGL(doc, DefaultConfig()))
	})

	t.Run("rows with values in the empty window are not headers", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Cash at Bank", "", "100"},
			{"01/02/2026", "txn", "", "", "10", ""},
		})

		assert.Empty(t, SegmentGL(doc, DefaultConfig()))
	})

	t.Run("a header needs a following transaction", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Cash at Bank"},
			{},
			{},
			{},
			{},
			{"stranded"},
		})

		// Nothing within the lookahead window below row 1, and row 6 is
		// the last row.
		assert.Empty(t, SegmentGL(doc, DefaultConfig()))
	})

	t.Run("empty grid yields no sections", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, SegmentGL(NewDocumentFromStrings(nil), DefaultConfig()))
	})

	t.Run("segmentation is idempotent", func(t *testing.T) {
		t.Parallel()

		doc := ledgerFixture()
		cfg := ledgerConfig()

		assert.Equal(t, SegmentGL(doc, cfg), SegmentGL(doc, cfg))
	})
}

func TestBuildGLSections(t *testing.T) {
	t.Parallel()

	t.Run("sections carry their summary target and value", func(t *testing.T) {
		t.Parallel()

		sections := BuildGLSections(ledgerFixture(), ledgerConfig())

		require.Len(t, sections, 2)

		cash := sections[0]
		assert.Equal(t, "Cash at Bank", cash.AccountName)
		assert.Equal(t, 1, cash.HeaderRow)
		assert.Equal(t, 3, cash.SummaryRow)
		assert.Equal(t, 5, cash.SummaryCol)
		assert.Equal(t, CellRef{Row: 3, Col: 5}, cash.Target)
		require.NotNil(t, cash.Value)
		assert.Equal(t, 50000.0, *cash.Value)

		sales := sections[1]
		assert.Equal(t, 7, sales.SummaryRow)
		assert.Equal(t, 6, sales.SummaryCol)
		require.NotNil(t, sales.Value)
		assert.Equal(t, 30000.0, *sales.Value)
	})

	t.Run("missing summary row falls back to the header cell", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Cash at Bank"},
			{"01/02/2026", "Invoice 42", "", "", "50000", ""},
		})

		sections := BuildGLSections(doc, DefaultConfig())

		require.Len(t, sections, 1)
		assert.Zero(t, sections[0].SummaryRow)
		assert.Zero(t, sections[0].SummaryCol)
		assert.Equal(t, CellRef{Row: 1, Col: 1}, sections[0].Target)
		assert.Nil(t, sections[0].Value)
	})

	t.Run("externally supplied headers get the same summary treatment", func(t *testing.T) {
		t.Parallel()

		headers := []SectionHeader{
			{Name: "Cash at Bank", HeaderRow: 1},
			{Name: "Sales Revenue", HeaderRow: 5},
		}

		sections := BuildGLSectionsFromHeaders(ledgerFixture(), headers, ledgerConfig())

		require.Len(t, sections, 2)
		assert.Equal(t, CellRef{Row: 3, Col: 5}, sections[0].Target)
		assert.Equal(t, CellRef{Row: 7, Col: 6}, sections[1].Target)
	})
}
