package metrics

import (
	lev "github.com/agnivade/levenshtein"

	"salesreport/strutil"
	"salesreport/table"
)

// maxInferDistance bounds the fuzzy header match; 1 accepts plurals and
// single-character typos ("Products", "catagory") without letting unrelated
// headers through.
const maxInferDistance = 1

// InferGroupColumn picks the grouping column for the top-N ranking. The
// candidates are tried in priority order with case-insensitive exact
// matching first; when nothing matches exactly, a Levenshtein pass accepts
// the closest header within maxInferDistance. The designated date and
// amount columns are never selected. Returns the column index or -1.
func InferGroupColumn(t *table.Table, candidates []string, dateCol, amountCol string) int {
	excluded := map[int]bool{
		t.ColumnIndex(dateCol):   true,
		t.ColumnIndex(amountCol): true,
	}

	keys := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		keys[i] = strutil.NormalizeKey(col)
	}

	for _, cand := range candidates {
		key := strutil.NormalizeKey(cand)
		for i := range keys {
			if excluded[i] {
				continue
			}
			if keys[i] == key {
				return i
			}
		}
	}

	for _, cand := range candidates {
		key := strutil.NormalizeKey(cand)
		for i := range keys {
			if excluded[i] {
				continue
			}
			if lev.ComputeDistance(keys[i], key) <= maxInferDistance {
				return i
			}
		}
	}
	return -1
}
