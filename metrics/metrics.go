// Package metrics derives summary sales metrics and chart data from a
// coerced table: totals, top-N groups over an inferred grouping column, and
// a time series resampled at an automatically chosen granularity.
package metrics

import (
	"sort"
	"strings"
	"time"

	"salesreport/table"
)

// Granularity of the resampled time series.
const (
	GranularityDaily   = "daily"
	GranularityWeekly  = "weekly"
	GranularityMonthly = "monthly"
)

// Span thresholds, in days, for picking the resampling granularity.
const (
	monthlySpanDays = 180
	weeklySpanDays  = 60
)

// DefaultGroupColumns are the grouping-column candidates, in priority order.
var DefaultGroupColumns = []string{"item", "product", "name", "category"}

// Options selects the columns and sizes used by Compute.
type Options struct {
	DateCol   string
	AmountCol string
	TopN      int
	// GroupColumns overrides DefaultGroupColumns when non-empty.
	GroupColumns []string
}

// Item is one aggregated group in the top-N ranking.
type Item struct {
	Name   string  `json:"item"`
	Amount float64 `json:"amount"`
}

// Point is one bucket of the aggregated time series.
type Point struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// CountPoint is one day of record counts.
type CountPoint struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Bin is one histogram bucket of the amount distribution. High is exclusive
// except for the last bin.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Metrics is the full derived result consumed by chart renderers and
// report builders.
type Metrics struct {
	TotalSales  float64 `json:"total_sales"`
	AvgTicket   float64 `json:"avg_ticket"`
	TotalOrders int     `json:"total_orders"`

	// GroupColumn is the inferred grouping column, "" when none matched.
	GroupColumn string `json:"group_column,omitempty"`
	// Granularity of TimeSeries buckets; "" when there is no series.
	Granularity string `json:"granularity,omitempty"`

	TopItems     []Item       `json:"top_items"`
	TimeSeries   []Point      `json:"time_series"`
	DailyCounts  []CountPoint `json:"daily_counts,omitempty"`
	MonthlySales []Point      `json:"monthly_sales,omitempty"`
	Cumulative   []Point      `json:"cumulative,omitempty"`
	Distribution []Bin        `json:"distribution,omitempty"`
}

// Compute derives all metrics from a coerced table. Missing date or amount
// columns degrade to zero values and empty series, never errors.
func Compute(t *table.Table, opts Options) *Metrics {
	m := &Metrics{TotalOrders: t.Len()}

	if t.HasAmounts && t.Len() > 0 {
		for _, v := range t.Amounts {
			m.TotalSales += v
		}
		m.AvgTicket = m.TotalSales / float64(t.Len())
	}

	candidates := opts.GroupColumns
	if len(candidates) == 0 {
		candidates = DefaultGroupColumns
	}
	groupIdx := InferGroupColumn(t, candidates, opts.DateCol, opts.AmountCol)
	if groupIdx >= 0 {
		m.GroupColumn = t.Columns[groupIdx]
		m.TopItems = topItems(t, groupIdx, opts.TopN)
	}

	m.TimeSeries, m.Granularity = timeSeries(t)
	m.DailyCounts = dailyCounts(t)
	m.MonthlySales = monthlySales(t)
	m.Cumulative = cumulative(m.TimeSeries)
	m.Distribution = distribution(t)
	return m
}

// topItems groups rows by the cell in groupIdx, sums the coerced amounts,
// and keeps the n largest. Blank group cells are skipped. Equal sums order
// lexically so the ranking is deterministic.
func topItems(t *table.Table, groupIdx, n int) []Item {
	if !t.HasAmounts || n <= 0 {
		return nil
	}
	sums := make(map[string]float64)
	for i := range t.Rows {
		name := strings.TrimSpace(t.Cell(i, groupIdx))
		if name == "" {
			continue
		}
		sums[name] += t.Amounts[i]
	}
	items := make([]Item, 0, len(sums))
	for name, sum := range sums {
		items = append(items, Item{Name: name, Amount: sum})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Amount != items[j].Amount {
			return items[i].Amount > items[j].Amount
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// timeSeries buckets daily sums at a granularity chosen from the observed
// span: beyond 180 days monthly, beyond 60 days weekly, otherwise daily.
// Interior gaps are filled with zero buckets; the series never extends
// beyond the observed [min, max] dates.
func timeSeries(t *table.Table) ([]Point, string) {
	if !t.HasDates || !t.HasAmounts || t.Len() == 0 {
		return nil, ""
	}

	daySums := make(map[time.Time]float64)
	var minDay, maxDay time.Time
	for i, ts := range t.Dates {
		day := truncateDay(ts)
		if len(daySums) == 0 || day.Before(minDay) {
			minDay = day
		}
		if len(daySums) == 0 || day.After(maxDay) {
			maxDay = day
		}
		daySums[day] += t.Amounts[i]
	}

	spanDays := int(maxDay.Sub(minDay).Hours() / 24)
	granularity := GranularityDaily
	switch {
	case spanDays > monthlySpanDays:
		granularity = GranularityMonthly
	case spanDays > weeklySpanDays:
		granularity = GranularityWeekly
	}

	bucketSums := make(map[time.Time]float64)
	for day, sum := range daySums {
		bucketSums[bucketLabel(day, granularity)] += sum
	}

	var points []Point
	end := bucketLabel(maxDay, granularity)
	for b := bucketLabel(minDay, granularity); !b.After(end); b = nextBucket(b, granularity) {
		points = append(points, Point{Date: b, Amount: bucketSums[b]})
	}
	return points, granularity
}

func truncateDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

// bucketLabel maps a day to its bucket label. Monthly buckets are labeled
// by the first of the month; weekly buckets are right-closed Tue..Mon
// windows labeled by the Monday that ends them, so a Monday record closes
// its own week.
func bucketLabel(day time.Time, granularity string) time.Time {
	switch granularity {
	case GranularityMonthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	case GranularityWeekly:
		return day.AddDate(0, 0, (8-int(day.Weekday()))%7)
	default:
		return day
	}
}

func nextBucket(b time.Time, granularity string) time.Time {
	switch granularity {
	case GranularityMonthly:
		return b.AddDate(0, 1, 0)
	case GranularityWeekly:
		return b.AddDate(0, 0, 7)
	default:
		return b.AddDate(0, 0, 1)
	}
}

// dailyCounts returns per-day record counts, sorted, without gap filling.
func dailyCounts(t *table.Table) []CountPoint {
	if !t.HasDates || t.Len() == 0 {
		return nil
	}
	counts := make(map[time.Time]int)
	for _, ts := range t.Dates {
		counts[truncateDay(ts)]++
	}
	out := make([]CountPoint, 0, len(counts))
	for day, c := range counts {
		out = append(out, CountPoint{Date: day, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// monthlySales returns per-calendar-month totals, sorted, without gap
// filling.
func monthlySales(t *table.Table) []Point {
	if !t.HasDates || !t.HasAmounts || t.Len() == 0 {
		return nil
	}
	sums := make(map[time.Time]float64)
	for i, ts := range t.Dates {
		month := time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
		sums[month] += t.Amounts[i]
	}
	out := make([]Point, 0, len(sums))
	for month, sum := range sums {
		out = append(out, Point{Date: month, Amount: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// cumulative converts the resampled series into a running total.
func cumulative(series []Point) []Point {
	if len(series) == 0 {
		return nil
	}
	out := make([]Point, len(series))
	total := 0.0
	for i, p := range series {
		total += p.Amount
		out[i] = Point{Date: p.Date, Amount: total}
	}
	return out
}

// distribution builds a histogram over the coerced amounts using the
// Sturges bin count.
func distribution(t *table.Table) []Bin {
	if !t.HasAmounts || t.Len() == 0 {
		return nil
	}
	minV, maxV := t.Amounts[0], t.Amounts[0]
	for _, v := range t.Amounts {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV == maxV {
		return []Bin{{Low: minV, High: maxV, Count: t.Len()}}
	}

	n := sturges(t.Len())
	width := (maxV - minV) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = minV + float64(i)*width
		bins[i].High = minV + float64(i+1)*width
	}
	bins[n-1].High = maxV
	for _, v := range t.Amounts {
		idx := int((v - minV) / width)
		if idx >= n {
			idx = n - 1
		}
		bins[idx].Count++
	}
	return bins
}

// sturges returns ceil(log2(n)) + 1 without importing math for a float
// round trip.
func sturges(n int) int {
	bins := 1
	for pow := 1; pow < n; pow *= 2 {
		bins++
	}
	if bins < 1 {
		bins = 1
	}
	return bins
}
