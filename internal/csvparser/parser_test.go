package csvparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseBasics(t *testing.T) {
	path := writeCSV(t, "\uFEFFInvoice ID, Invoice Number ,\n10001,INV-001,extra\n,,\n10002,INV-002\n")

	data, err := Parse(path)
	require.NoError(t, err)

	// BOM stripped, headers trimmed, blank header named.
	assert.Equal(t, []string{"Invoice ID", "Invoice Number", "Column_3"}, data.Headers)
	assert.True(t, data.HasColumn("Invoice Number"))
	assert.False(t, data.HasColumn("Missing"))

	// Empty row skipped; ragged short row padded with empty values.
	require.Equal(t, 2, data.RowCount())
	assert.Equal(t, "INV-001", data.Rows[0]["Invoice Number"])
	assert.Equal(t, "", data.Rows[1]["Column_3"])

	// Original file rows survive for error reporting.
	assert.Equal(t, []int{2, 4}, data.RowNumbers)
}

func TestParseEmptyFile(t *testing.T) {
	_, err := Parse(writeCSV(t, ""))
	assert.Error(t, err)
}

func TestGroupByPreservesFirstSeenOrder(t *testing.T) {
	data := &CSVData{
		Rows: []map[string]string{
			{"Invoice ID": "B", "Item": "1"},
			{"Invoice ID": "A", "Item": "2"},
			{"Invoice ID": "B", "Item": "3"},
		},
		RowNumbers: []int{2, 3, 4},
	}

	groups := GroupBy(data, "Invoice ID")
	require.Len(t, groups, 2)

	assert.Equal(t, "B", groups[0].Key)
	assert.Len(t, groups[0].Rows, 2)
	assert.Equal(t, []int{2, 4}, groups[0].RowNumbers)

	assert.Equal(t, "A", groups[1].Key)
	assert.Equal(t, []int{3}, groups[1].RowNumbers)
}
