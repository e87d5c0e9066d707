package tbgllink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTBStructure(t *testing.T) {
	t.Parallel()

	t.Run("detects standard header row", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Account Code", "Account Name", "Debit", "Credit"},
			{"1000", "Cash at Bank", "50000", ""},
		})

		s, err := DetectTBStructure(doc, DefaultConfig())

		require.NoError(t, err)
		assert.Equal(t, 1, s.HeaderRow)
		assert.Equal(t, 1, s.AccountCodeCol)
		assert.Equal(t, 2, s.AccountNameCol)
		assert.Equal(t, 3, s.DebitCol)
		assert.Equal(t, 4, s.CreditCol)
		assert.Equal(t, 2, s.DataStartRow)
		assert.True(t, s.Valid())
	})

	t.Run("skips title rows above the header", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Acme Ltd"},
			{"Trial Balance as at 31 March"},
			{},
			{"Account", "Dr Debit", "Cr Credit"},
			{"Rent", "1200", ""},
		})

		s, err := DetectTBStructure(doc, DefaultConfig())

		require.NoError(t, err)
		assert.Equal(t, 4, s.HeaderRow)
		assert.Equal(t, 1, s.AccountCodeCol)
		assert.Equal(t, 2, s.DebitCol)
		assert.Equal(t, 3, s.CreditCol)
		assert.Equal(t, 5, s.DataStartRow)
	})

	t.Run("column hits accumulate across rows", func(t *testing.T) {
		t.Parallel()

		// Amount headers a row above the account header still count.
		doc := NewDocumentFromStrings([][]string{
			{"", "", "Debit", "Credit"},
			{"Account"},
			{"Cash", "", "100", ""},
		})

		s, err := DetectTBStructure(doc, DefaultConfig())

		require.NoError(t, err)
		assert.Equal(t, 2, s.HeaderRow)
		assert.Equal(t, 3, s.DebitCol)
		assert.Equal(t, 4, s.CreditCol)
		assert.Equal(t, 3, s.DataStartRow)
	})

	t.Run("later column wins within a row", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Code", "Account", "Debit", "Credit"},
		})

		s, err := DetectTBStructure(doc, DefaultConfig())

		require.NoError(t, err)
		assert.Equal(t, 2, s.AccountCodeCol)
	})

	t.Run("keyword variants classify name and code columns", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Acct No", "Account Description", "Debit Amount", "Credit Amount"},
		})

		s, err := DetectTBStructure(doc, DefaultConfig())

		require.NoError(t, err)
		assert.Equal(t, 1, s.AccountCodeCol)
		assert.Equal(t, 2, s.AccountNameCol)
	})

	t.Run("fails when no header row exists", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"just", "some", "text"},
			{"1", "2", "3"},
		})

		_, err := DetectTBStructure(doc, DefaultConfig())

		assert.ErrorIs(t, err, ErrStructureNotFound)
	})

	t.Run("header outside the scan window is not found", func(t *testing.T) {
		t.Parallel()

		rows := make([][]string, 25)
		rows[22] = []string{"Account", "Debit", "Credit"}

		_, err := DetectTBStructure(NewDocumentFromStrings(rows), DefaultConfig())

		assert.ErrorIs(t, err, ErrStructureNotFound)
	})
}

func TestResolveTBAccounts(t *testing.T) {
	t.Parallel()

	t.Run("uses the account name column when present", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Account Code", "Account Name", "Debit", "Credit"},
			{"1000", "Cash at Bank", "50000", ""},
			{"2000", "Sales Revenue", "", "30000"},
		})
		s, err := DetectTBStructure(doc, DefaultConfig())
		require.NoError(t, err)

		accounts, _ := ResolveTBAccounts(doc, s)

		require.Len(t, accounts, 2)
		assert.Equal(t, TBAccountRow{Row: 2, Name: "Cash at Bank"}, accounts[0])
		assert.Equal(t, TBAccountRow{Row: 3, Name: "Sales Revenue"}, accounts[1])
	})

	t.Run("probes adjacent columns and backfills the name column", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Account", "", "Debit", "Credit"},
			{"1000", "Cash at Bank", "50000", ""},
		})
		s, err := DetectTBStructure(doc, DefaultConfig())
		require.NoError(t, err)
		require.Zero(t, s.AccountNameCol)

		accounts, resolved := ResolveTBAccounts(doc, s)

		require.Len(t, accounts, 1)
		assert.Equal(t, "Cash at Bank", accounts[0].Name)
		assert.Equal(t, 2, resolved.AccountNameCol)
	})

	t.Run("probe skips numeric codes and short values", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Account", "", "", "Debit", "Credit"},
			{"ABC", "100-200.3", "Sundry Debtors", "10", ""},
		})
		s, err := DetectTBStructure(doc, DefaultConfig())
		require.NoError(t, err)

		accounts, resolved := ResolveTBAccounts(doc, s)

		require.Len(t, accounts, 1)
		assert.Equal(t, "Sundry Debtors", accounts[0].Name)
		assert.Equal(t, 3, resolved.AccountNameCol)
	})

	t.Run("numeric value in the name column skips the row", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Account Code", "Account Name", "Debit", "Credit"},
			{"1000", "500", "50000", ""},
			{"2000", "Sales Revenue", "", "30000"},
		})
		s, err := DetectTBStructure(doc, DefaultConfig())
		require.NoError(t, err)

		accounts, _ := ResolveTBAccounts(doc, s)

		require.Len(t, accounts, 1)
		assert.Equal(t, 3, accounts[0].Row)
	})

	t.Run("rows with no resolvable name are omitted", func(t *testing.T) {
		t.Parallel()

		doc := NewDocumentFromStrings([][]string{
			{"Account", "Debit", "Credit"},
			{"1000", "50000", ""},
		})
		s, err := DetectTBStructure(doc, DefaultConfig())
		require.NoError(t, err)

		accounts, _ := ResolveTBAccounts(doc, s)

		assert.Empty(t, accounts)
	})
}
