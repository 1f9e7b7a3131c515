package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"lowercase extension", "ledger.csv", false},
		{"uppercase extension", "LEDGER.CSV", false},
		{"excel file", "ledger.xlsx", true},
		{"no extension", "ledger", true},
		{"csv in the middle", "ledger.csv.exe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotCSV)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReadTable(t *testing.T) {
	input := "sender,receiver,amount\nalice,bob,10.5\ncarol,dave,20\n"

	table, err := ReadTable(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"sender", "receiver", "amount"}, table.Columns)
	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, "alice", table.Rows[0]["sender"])
	assert.Equal(t, "20", table.Rows[1]["amount"])
}

func TestReadTablePadsRaggedRows(t *testing.T) {
	input := "a,b,c\n1,2\n4,5,6,7\n"

	table, err := ReadTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, table.NumRows())

	// Short rows pad with empty values, long rows truncate to the header
	assert.Equal(t, "", table.Rows[0]["c"])
	assert.Equal(t, "6", table.Rows[1]["c"])
}

func TestReadTableEmptyInput(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadTableMalformedCSV(t *testing.T) {
	input := "a,b\n\"unterminated,1\n"

	_, err := ReadTable(strings.NewReader(input))
	assert.Error(t, err)
}

func TestReadTableHeaderOnly(t *testing.T) {
	table, err := ReadTable(strings.NewReader("sender,receiver,amount\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.NumRows())
}
