package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Table is merged CSV data: rows aligned to one column set. Cells for
// columns a source file did not have are empty strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// MergeCSV parses each file and concatenates the rows. The column set
// is the union over all files in first-seen order, so files for one
// table may disagree on headers. Files that are not valid UTF-8 are
// decoded as Latin-1.
func MergeCSV(files [][]byte) (*Table, error) {
	table := &Table{}
	index := map[string]int{} // column name -> position

	for _, data := range files {
		if !utf8.Valid(data) {
			decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode csv: %w", err)
			}
			data = decoded
		}

		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1 // ragged rows are padded below

		records, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		if len(records) == 0 {
			continue
		}

		header := dedupeHeader(records[0])
		for _, col := range header {
			if _, ok := index[col]; !ok {
				index[col] = len(table.Columns)
				table.Columns = append(table.Columns, col)
			}
		}

		for _, record := range records[1:] {
			row := make([]string, len(table.Columns))
			for i, val := range record {
				if i >= len(header) {
					break
				}
				row[index[header[i]]] = val
			}
			table.Rows = append(table.Rows, row)
		}
	}

	// Earlier rows may be shorter than the final column set
	for i, row := range table.Rows {
		if len(row) < len(table.Columns) {
			padded := make([]string, len(table.Columns))
			copy(padded, row)
			table.Rows[i] = padded
		}
	}

	return table, nil
}

// dedupeHeader renames repeated column names within one header so later
// occurrences don't silently overwrite earlier ones: the second "a"
// becomes "a.1", the third "a.2", and so on.
func dedupeHeader(header []string) []string {
	names := make([]string, len(header))
	counts := make(map[string]int, len(header))
	for i, col := range header {
		n := counts[col]
		counts[col] = n + 1
		if n > 0 {
			col = fmt.Sprintf("%s.%d", col, n)
		}
		names[i] = col
	}
	return names
}

// ColumnTypes infers a Postgres type per column: INTEGER when every
// value parses as an integer, REAL when every value parses as a float,
// TEXT otherwise. Empty cells don't veto a numeric type; a column with
// no values at all is TEXT.
func (t *Table) ColumnTypes() []string {
	types := make([]string, len(t.Columns))
	for c := range t.Columns {
		allInt, allFloat, seen := true, true, false
		for _, row := range t.Rows {
			val := row[c]
			if val == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseInt(val, 10, 64); err != nil {
				allInt = false
			}
			if _, err := strconv.ParseFloat(val, 64); err != nil {
				allFloat = false
				break
			}
		}

		switch {
		case !seen:
			types[c] = "TEXT"
		case allInt:
			types[c] = "INTEGER"
		case allFloat:
			types[c] = "REAL"
		default:
			types[c] = "TEXT"
		}
	}
	return types
}
