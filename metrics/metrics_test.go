package metrics

import (
	"testing"
	"time"

	"salesreport/table"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// coerced builds a table the way EnforceTypes would leave it: one date and
// one amount per row plus a group column.
func coerced(groups []string, dates []time.Time, amounts []float64) *table.Table {
	t := &table.Table{
		Columns:    []string{"date", "item", "amount"},
		HasDates:   dates != nil,
		Dates:      dates,
		HasAmounts: amounts != nil,
		Amounts:    amounts,
	}
	for i := range groups {
		var d, a string
		if dates != nil {
			d = dates[i].Format("2006-01-02")
		}
		t.Rows = append(t.Rows, []string{d, groups[i], a})
	}
	return t
}

func TestComputeTotals(t *testing.T) {
	tbl := coerced(
		[]string{"apple", "pear", "apple"},
		[]time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)},
		[]float64{10, 20, 30},
	)
	m := Compute(tbl, Options{DateCol: "date", AmountCol: "amount", TopN: 5})
	if m.TotalSales != 60 {
		t.Errorf("total sales = %v, want 60", m.TotalSales)
	}
	if m.AvgTicket != 20 {
		t.Errorf("avg ticket = %v, want 20", m.AvgTicket)
	}
	if m.TotalOrders != 3 {
		t.Errorf("total orders = %d, want 3", m.TotalOrders)
	}
}

func TestComputeEmptyTable(t *testing.T) {
	tbl := &table.Table{Columns: []string{"date", "item", "amount"}}
	m := Compute(tbl, Options{DateCol: "date", AmountCol: "amount", TopN: 5})
	if m.TotalSales != 0 || m.AvgTicket != 0 || m.TotalOrders != 0 {
		t.Errorf("empty table must produce zero totals: %+v", m)
	}
	if len(m.TopItems) != 0 || len(m.TimeSeries) != 0 {
		t.Errorf("empty table must produce empty series: %+v", m)
	}
}

func TestComputeWithoutAmountColumn(t *testing.T) {
	tbl := &table.Table{
		Columns: []string{"item"},
		Rows:    [][]string{{"apple"}, {"pear"}},
	}
	m := Compute(tbl, Options{TopN: 5})
	if m.TotalSales != 0 || m.AvgTicket != 0 {
		t.Errorf("missing amount column must yield zero totals: %+v", m)
	}
	if m.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", m.TotalOrders)
	}
	if len(m.TopItems) != 0 {
		t.Errorf("top items need an amount column: %+v", m.TopItems)
	}
}

func TestTopItemsRankingAndTies(t *testing.T) {
	tbl := coerced(
		[]string{"pear", "apple", "plum", "apple", "pear"},
		nil,
		[]float64{20, 15, 5, 15, 10},
	)
	m := Compute(tbl, Options{AmountCol: "amount", TopN: 2})
	if m.GroupColumn != "item" {
		t.Fatalf("group column = %q, want item", m.GroupColumn)
	}
	if len(m.TopItems) != 2 {
		t.Fatalf("expected 2 top items, got %d", len(m.TopItems))
	}
	// apple and pear both sum to 30; lexical tie-break puts apple first.
	if m.TopItems[0].Name != "apple" || m.TopItems[1].Name != "pear" {
		t.Errorf("unexpected ranking: %+v", m.TopItems)
	}
	if m.TopItems[0].Amount != 30 {
		t.Errorf("apple sum = %v, want 30", m.TopItems[0].Amount)
	}
}

func TestTopItemsSkipsBlankGroups(t *testing.T) {
	tbl := coerced([]string{"apple", "", "  "}, nil, []float64{5, 7, 9})
	m := Compute(tbl, Options{AmountCol: "amount", TopN: 5})
	if len(m.TopItems) != 1 || m.TopItems[0].Name != "apple" {
		t.Errorf("blank groups must be skipped: %+v", m.TopItems)
	}
}

func TestGranularitySelection(t *testing.T) {
	cases := []struct {
		name     string
		spanDays int
		want     string
	}{
		{"single day", 0, GranularityDaily},
		{"sixty days", 60, GranularityDaily},
		{"just over weekly threshold", 61, GranularityWeekly},
		{"half year", 180, GranularityWeekly},
		{"just over monthly threshold", 181, GranularityMonthly},
		{"full year", 365, GranularityMonthly},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := day(2024, 1, 1)
			dates := []time.Time{start, start.AddDate(0, 0, tc.spanDays)}
			amounts := []float64{1, 2}
			tbl := coerced([]string{"a", "b"}, dates, amounts)
			m := Compute(tbl, Options{DateCol: "date", AmountCol: "amount", TopN: 1})
			if m.Granularity != tc.want {
				t.Errorf("span %d days: granularity = %q, want %q", tc.spanDays, m.Granularity, tc.want)
			}
		})
	}
}

func TestTimeSeriesDailyGapFill(t *testing.T) {
	dates := []time.Time{day(2024, 1, 1), day(2024, 1, 4), day(2024, 1, 4)}
	tbl := coerced([]string{"a", "b", "c"}, dates, []float64{10, 5, 7})
	m := Compute(tbl, Options{DateCol: "date", AmountCol: "amount", TopN: 1})
	if len(m.TimeSeries) != 4 {
		t.Fatalf("expected 4 contiguous days, got %d: %+v", len(m.TimeSeries), m.TimeSeries)
	}
	if m.TimeSeries[1].Amount != 0 || m.TimeSeries[2].Amount != 0 {
		t.Errorf("interior gaps must be zero-filled: %+v", m.TimeSeries)
	}
	if m.TimeSeries[3].Amount != 12 {
		t.Errorf("same-day amounts must accumulate: %+v", m.TimeSeries[3])
	}
	if !m.TimeSeries[0].Date.Equal(day(2024, 1, 1)) || !m.TimeSeries[3].Date.Equal(day(2024, 1, 4)) {
		t.Errorf("series must span exactly the observed dates: %+v", m.TimeSeries)
	}
}

func TestTimeSeriesWeeklyBucketsEndMonday(t *testing.T) {
	// 70-day span forces weekly buckets. Weeks are Tue..Mon windows
	// labeled by their closing Monday: Wednesday 2024-01-03 belongs to the
	// bucket labeled 2024-01-08, and a Monday record closes its own week
	// rather than opening the next one.
	dates := []time.Time{day(2024, 1, 3), day(2024, 1, 8), day(2024, 3, 13)}
	tbl := coerced([]string{"a", "b", "c"}, dates, []float64{4, 10, 6})
	m := Compute(tbl, Options{DateCol: "date", AmountCol: "amount", TopN: 1})
	if m.Granularity != GranularityWeekly {
		t.Fatalf("granularity = %q, want weekly", m.Granularity)
	}
	first := m.TimeSeries[0]
	if !first.Date.Equal(day(2024, 1, 8)) {
		t.Errorf("first bucket = %v, want 2024-01-08", first.Date)
	}
	if first.Amount != 14 {
		t.Errorf("first bucket sum = %v, want 14 (Wed 01-03 + Mon 01-08)", first.Amount)
	}
	last := m.TimeSeries[len(m.TimeSeries)-1]
	if !last.Date.Equal(day(2024, 3, 18)) || last.Amount != 6 {
		t.Errorf("last bucket = %+v, want 2024-03-18 with 6", last)
	}
	for _, p := range m.TimeSeries {
		if p.Date.Weekday() != time.Monday {
			t.Errorf("bucket %v is not labeled by a Monday", p.Date)
		}
	}
}

func TestTimeSeriesMonthlyBuckets(t *testing.T) {
	dates := []time.Time{day(2023, 1, 15), day(2023, 12, 20)}
	tbl := coerced([]string{"a", "b"}, dates, []float64{1, 2})
	m := Compute(tbl, Options{DateCol: "date", AmountCol: "amount", TopN: 1})
	if m.Granularity != GranularityMonthly {
		t.Fatalf("granularity = %q, want monthly", m.Granularity)
	}
	if len(m.TimeSeries) != 12 {
		t.Fatalf("expected 12 monthly buckets, got %d", len(m.TimeSeries))
	}
	if m.TimeSeries[0].Date.Day() != 1 {
		t.Errorf("monthly buckets must start on the first: %v", m.TimeSeries[0].Date)
	}
	if m.TimeSeries[0].Amount != 1 || m.TimeSeries[11].Amount != 2 {
		t.Errorf("unexpected bucket sums: %+v", m.TimeSeries)
	}
}

func TestTimeSeriesRequiresBothColumns(t *testing.T) {
	tbl := coerced([]string{"a"}, []time.Time{day(2024, 1, 1)}, nil)
	m := Compute(tbl, Options{DateCol: "date", TopN: 1})
	if len(m.TimeSeries) != 0 || m.Granularity != "" {
		t.Errorf("series without amounts must be empty: %+v", m)
	}
}

func TestCumulativeRunningTotal(t *testing.T) {
	dates := []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}
	tbl := coerced([]string{"a", "b", "c"}, dates, []float64{5, 0, 10})
	m := Compute(tbl, Options{DateCol: "date", AmountCol: "amount", TopN: 1})
	want := []float64{5, 5, 15}
	if len(m.Cumulative) != len(want) {
		t.Fatalf("cumulative length = %d, want %d", len(m.Cumulative), len(want))
	}
	for i, w := range want {
		if m.Cumulative[i].Amount != w {
			t.Errorf("cumulative[%d] = %v, want %v", i, m.Cumulative[i].Amount, w)
		}
	}
}

func TestDailyCountsAndMonthlySales(t *testing.T) {
	dates := []time.Time{day(2024, 1, 1), day(2024, 1, 1), day(2024, 2, 10)}
	tbl := coerced([]string{"a", "b", "c"}, dates, []float64{1, 2, 3})
	m := Compute(tbl, Options{DateCol: "date", AmountCol: "amount", TopN: 1})
	if len(m.DailyCounts) != 2 || m.DailyCounts[0].Count != 2 {
		t.Errorf("unexpected daily counts: %+v", m.DailyCounts)
	}
	if len(m.MonthlySales) != 2 {
		t.Fatalf("unexpected monthly sales: %+v", m.MonthlySales)
	}
	if m.MonthlySales[0].Amount != 3 || m.MonthlySales[1].Amount != 3 {
		t.Errorf("unexpected monthly sums: %+v", m.MonthlySales)
	}
}

func TestDistributionBins(t *testing.T) {
	amounts := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	tbl := coerced(make([]string, len(amounts)), nil, amounts)
	m := Compute(tbl, Options{AmountCol: "amount", TopN: 1})
	if len(m.Distribution) != 4 { // ceil(log2(8))+1
		t.Fatalf("expected 4 bins for 8 values, got %d", len(m.Distribution))
	}
	total := 0
	for _, b := range m.Distribution {
		total += b.Count
	}
	if total != len(amounts) {
		t.Errorf("bins must cover every value: counted %d of %d", total, len(amounts))
	}
	last := m.Distribution[len(m.Distribution)-1]
	if last.Count == 0 {
		t.Error("maximum value must land in the last bin")
	}
}

func TestDistributionSingleValue(t *testing.T) {
	tbl := coerced([]string{"a", "b"}, nil, []float64{5, 5})
	m := Compute(tbl, Options{AmountCol: "amount", TopN: 1})
	if len(m.Distribution) != 1 || m.Distribution[0].Count != 2 {
		t.Errorf("degenerate distribution: %+v", m.Distribution)
	}
}
