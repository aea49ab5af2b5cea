package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeCSV(t *testing.T) {
	a := []byte("id,name\n1,alpha\n2,beta\n")
	b := []byte("id,price\n3,9.5\n")

	table, err := MergeCSV([][]byte{a, b})
	require.NoError(t, err)

	// Union of columns in first-seen order
	assert.Equal(t, []string{"id", "name", "price"}, table.Columns)
	assert.Equal(t, [][]string{
		{"1", "alpha", ""},
		{"2", "beta", ""},
		{"3", "", "9.5"},
	}, table.Rows)
}

func TestMergeCSVDuplicateHeaders(t *testing.T) {
	data := []byte("id,name,name\n1,first,second\n")

	table, err := MergeCSV([][]byte{data})
	require.NoError(t, err)

	// The repeated header gets a numbered suffix instead of swallowing
	// the earlier column's values
	assert.Equal(t, []string{"id", "name", "name.1"}, table.Columns)
	assert.Equal(t, [][]string{{"1", "first", "second"}}, table.Rows)
}

func TestMergeCSVLatin1Fallback(t *testing.T) {
	// 0xE9 is 'é' in Latin-1 and invalid as a standalone UTF-8 byte
	data := []byte("name\ncaf\xe9\n")

	table, err := MergeCSV([][]byte{data})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "café", table.Rows[0][0])
}

func TestColumnTypes(t *testing.T) {
	table := &Table{
		Columns: []string{"count", "ratio", "label", "sparse", "empty"},
		Rows: [][]string{
			{"1", "0.5", "a", "", ""},
			{"2", "3", "7", "42", ""},
		},
	}

	// ints are also valid floats, so ratio stays REAL; a numeric-looking
	// value in a text column doesn't make the column numeric unless all
	// values are; empty cells don't veto a type and an all-empty column
	// is TEXT.
	assert.Equal(t, []string{"INTEGER", "REAL", "TEXT", "INTEGER", "TEXT"}, table.ColumnTypes())
}
