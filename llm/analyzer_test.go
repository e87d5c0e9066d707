package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuteke2023/tbgllink"
)

func TestGridPreview(t *testing.T) {
	t.Parallel()

	t.Run("renders rows with numbers and column letters", func(t *testing.T) {
		t.Parallel()

		doc := tbgllink.NewDocumentFromStrings([][]string{
			{"Account", "Debit"},
			{"Cash at Bank", "50000"},
		})

		preview := GridPreview(doc, 10, 10)

		lines := strings.Split(strings.TrimRight(preview, "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Row,A,B", lines[0])
		assert.Equal(t, "1,Account,Debit", lines[1])
		assert.Equal(t, "2,Cash at Bank,50000", lines[2])
	})

	t.Run("escapes embedded commas", func(t *testing.T) {
		t.Parallel()

		doc := tbgllink.NewDocumentFromStrings([][]string{
			{"Fixtures, Fittings"},
		})

		preview := GridPreview(doc, 10, 10)

		assert.Contains(t, preview, `"Fixtures, Fittings"`)
	})

	t.Run("notes truncation", func(t *testing.T) {
		t.Parallel()

		rows := make([][]string, 40)
		for i := range rows {
			rows[i] = []string{"x"}
		}
		doc := tbgllink.NewDocumentFromStrings(rows)

		preview := GridPreview(doc, 5, 5)

		assert.Contains(t, preview, "truncated")
		assert.Contains(t, preview, "40 rows")
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes clean replies", func(t *testing.T) {
		t.Parallel()

		var reply tbStructureReply
		err := decodeJSON(`{"header_row": 1, "debit_col": 3, "credit_col": 4}`, &reply)

		require.NoError(t, err)
		assert.Equal(t, 1, reply.HeaderRow)
		assert.Equal(t, 3, reply.DebitCol)
	})

	t.Run("repairs fenced and truncated replies", func(t *testing.T) {
		t.Parallel()

		raw := "```json\n{\"accounts\": [{\"name\": \"Cash at Bank\", \"header_row\": 1}]\n```"

		var reply glSectionsReply
		err := decodeJSON(raw, &reply)

		require.NoError(t, err)
		require.Len(t, reply.Accounts, 1)
		assert.Equal(t, "Cash at Bank", reply.Accounts[0].Name)
		assert.Equal(t, 1, reply.Accounts[0].HeaderRow)
	})

	t.Run("match replies decode confidence", func(t *testing.T) {
		t.Parallel()

		raw := `{"matches": [{"tb_row": 2, "tb_account": "Cash at Bank", "gl_account": "Cash at Bank", "confidence": 0.95}], "unmatched_tb": ["Sundry Debtors"]}`

		var reply matchReply
		err := decodeJSON(raw, &reply)

		require.NoError(t, err)
		require.Len(t, reply.Matches, 1)
		assert.Equal(t, 0.95, reply.Matches[0].Confidence)
		assert.Equal(t, []string{"Sundry Debtors"}, reply.UnmatchedTB)
	})
}
