package metrics

import (
	"sort"
	"strings"

	"salesreport/table"
)

// GroupStat summarizes one group for the category breakdown output.
type GroupStat struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
}

// GroupStats aggregates row counts, sums and means of the coerced amounts
// per value of groupCol, sorted by sum descending. Used by the data
// cleaning tool for its per-category breakdown.
func GroupStats(t *table.Table, groupCol string) []GroupStat {
	idx := t.ColumnIndex(groupCol)
	if idx < 0 || !t.HasAmounts {
		return nil
	}
	type agg struct {
		count int
		sum   float64
	}
	groups := make(map[string]*agg)
	for i := range t.Rows {
		name := strings.TrimSpace(t.Cell(i, idx))
		if name == "" {
			continue
		}
		g := groups[name]
		if g == nil {
			g = &agg{}
			groups[name] = g
		}
		g.count++
		g.sum += t.Amounts[i]
	}
	out := make([]GroupStat, 0, len(groups))
	for name, g := range groups {
		out = append(out, GroupStat{
			Name:  name,
			Count: g.count,
			Sum:   g.sum,
			Mean:  g.sum / float64(g.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sum != out[j].Sum {
			return out[i].Sum > out[j].Sum
		}
		return out[i].Name < out[j].Name
	})
	return out
}
