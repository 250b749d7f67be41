// Package table loads tabular datasets (CSV, JSON, plist, SQLite) into a
// uniform in-memory form and coerces user-designated date/amount columns.
package table

import (
	"fmt"
	"strconv"
	"time"

	"salesreport/strutil"
)

// Table holds an ordered header plus string rows. Typed side arrays are
// populated by EnforceTypes and stay aligned with Rows.
type Table struct {
	Columns []string
	Rows    [][]string

	// HasDates/Dates are set when a date column was coerced; rows whose
	// date failed to parse have already been dropped.
	HasDates bool
	Dates    []time.Time

	// HasAmounts/Amounts are set when an amount column was coerced;
	// unparseable cells become 0 and the row is kept.
	HasAmounts bool
	Amounts    []float64
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the index of the named column, or -1. Matching is
// exact first, then case-insensitive, so user-supplied flags tolerate
// header casing differences.
func (t *Table) ColumnIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	key := strutil.NormalizeKey(name)
	for i, c := range t.Columns {
		if strutil.NormalizeKey(c) == key {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Sample returns up to n leading rows for report preview sections.
func (t *Table) Sample(n int) [][]string {
	if n <= 0 || len(t.Rows) == 0 {
		return nil
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.Rows[i]))
		copy(row, t.Rows[i])
		out[i] = row
	}
	return out
}

// normalizeRow pads or truncates a row to the header width so ragged input
// never produces out-of-range cells downstream.
func normalizeRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// cellString renders a decoded JSON/plist/SQL value the way it would appear
// in a CSV cell.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}
