package metrics

import (
	"testing"

	"salesreport/table"
)

func tableWithColumns(cols ...string) *table.Table {
	return &table.Table{Columns: cols}
}

func TestInferGroupColumnExactPriority(t *testing.T) {
	// Both "category" and "item" are present; "item" wins on priority.
	tbl := tableWithColumns("date", "category", "item", "amount")
	idx := InferGroupColumn(tbl, DefaultGroupColumns, "date", "amount")
	if idx != 2 {
		t.Fatalf("expected item column (2), got %d", idx)
	}
}

func TestInferGroupColumnCaseInsensitive(t *testing.T) {
	tbl := tableWithColumns("Date", "Product", "Amount")
	idx := InferGroupColumn(tbl, DefaultGroupColumns, "Date", "Amount")
	if idx != 1 {
		t.Fatalf("expected Product column (1), got %d", idx)
	}
}

func TestInferGroupColumnFuzzy(t *testing.T) {
	cases := []struct {
		header string
		match  bool
	}{
		{"Products", true}, // plural of candidate
		{"catagory", true}, // one-letter typo
		{"itemx", true},
		{"quantity", false},
		{"vendor", false},
	}
	for _, tc := range cases {
		tbl := tableWithColumns("date", tc.header, "amount")
		idx := InferGroupColumn(tbl, DefaultGroupColumns, "date", "amount")
		if tc.match && idx != 1 {
			t.Errorf("header %q: expected fuzzy match, got %d", tc.header, idx)
		}
		if !tc.match && idx != -1 {
			t.Errorf("header %q: expected no match, got %d", tc.header, idx)
		}
	}
}

func TestInferGroupColumnPrefersExactOverFuzzy(t *testing.T) {
	// "names" is distance 1 from the higher-priority candidate "name",
	// but the exact "category" match must win.
	tbl := tableWithColumns("names", "category")
	idx := InferGroupColumn(tbl, DefaultGroupColumns, "", "")
	if idx != 1 {
		t.Fatalf("exact match must beat fuzzy, got %d", idx)
	}
}

func TestInferGroupColumnExcludesDesignatedColumns(t *testing.T) {
	// The amount column itself must never be picked even if it matches a
	// candidate.
	tbl := tableWithColumns("date", "item")
	idx := InferGroupColumn(tbl, DefaultGroupColumns, "date", "item")
	if idx != -1 {
		t.Fatalf("amount column must be excluded from inference, got %d", idx)
	}
}

func TestInferGroupColumnCustomCandidates(t *testing.T) {
	tbl := tableWithColumns("date", "sku", "amount")
	idx := InferGroupColumn(tbl, []string{"sku"}, "date", "amount")
	if idx != 1 {
		t.Fatalf("custom candidate not honored, got %d", idx)
	}
}

func TestGroupStats(t *testing.T) {
	tbl := &table.Table{
		Columns: []string{"category", "price"},
		Rows: [][]string{
			{"electronics", ""},
			{"electronics", ""},
			{"home", ""},
		},
		HasAmounts: true,
		Amounts:    []float64{100, 50, 200},
	}
	stats := GroupStats(tbl, "category")
	if len(stats) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(stats))
	}
	if stats[0].Name != "home" || stats[0].Sum != 200 {
		t.Errorf("unexpected leader: %+v", stats[0])
	}
	if stats[1].Count != 2 || stats[1].Mean != 75 {
		t.Errorf("unexpected electronics stats: %+v", stats[1])
	}
	if GroupStats(tbl, "missing") != nil {
		t.Error("missing group column must return nil")
	}
}
