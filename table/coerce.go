package table

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when coercing a date column. Extra layouts
// from config are appended after these.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// ParseDate parses a date cell against the built-in layouts plus extras.
func ParseDate(s string, extra []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	for _, layout := range extra {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// SanitizeAmount strips currency symbols, thousands separators, percent
// signs and whitespace so "₹1,234.50" or "58%" parse as plain numbers.
// The sign and decimal point survive.
func SanitizeAmount(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount sanitizes and parses a numeric cell.
func ParseAmount(s string) (float64, bool) {
	cleaned := SanitizeAmount(s)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// EnforceTypes coerces the designated date and amount columns, returning a
// new table. Rows whose date cell fails to parse are dropped; amount cells
// that fail to parse become 0 and the row is kept. Unknown column names are
// ignored, leaving the corresponding typed array unset.
func EnforceTypes(t *Table, dateCol, amountCol string, extraLayouts []string) *Table {
	out := &Table{Columns: t.Columns}

	dateIdx := t.ColumnIndex(dateCol)
	amountIdx := t.ColumnIndex(amountCol)
	out.HasDates = dateIdx >= 0
	out.HasAmounts = amountIdx >= 0

	for i, row := range t.Rows {
		var ts time.Time
		if out.HasDates {
			parsed, ok := ParseDate(t.Cell(i, dateIdx), extraLayouts)
			if !ok {
				continue
			}
			ts = parsed
		}
		kept := make([]string, len(row))
		copy(kept, row)
		out.Rows = append(out.Rows, kept)
		if out.HasDates {
			out.Dates = append(out.Dates, ts)
		}
		if out.HasAmounts {
			v, _ := ParseAmount(t.Cell(i, amountIdx))
			out.Amounts = append(out.Amounts, v)
		}
	}
	return out
}
