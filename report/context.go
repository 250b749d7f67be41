// Package report assembles the PDF, PPTX and XLSX report outputs from the
// computed metrics and rendered chart images.
package report

import (
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"

	"salesreport/metrics"
)

// ChartSet holds the chart image paths produced by the renderers. Empty or
// missing paths are skipped by the builders.
type ChartSet struct {
	TimeSeries   string
	TopItems     string
	DailyCounts  string
	MonthlySales string
	Cumulative   string
	Distribution string
}

// ChartRef is one embeddable chart with its section title.
type ChartRef struct {
	Title string
	Path  string
}

// Existing returns the charts that are actually present on disk, in report
// order.
func (cs ChartSet) Existing() []ChartRef {
	all := []ChartRef{
		{"Sales over time", cs.TimeSeries},
		{"Top items", cs.TopItems},
		{"Records per day", cs.DailyCounts},
		{"Monthly sales", cs.MonthlySales},
		{"Cumulative sales", cs.Cumulative},
		{"Amount distribution", cs.Distribution},
	}
	var out []ChartRef
	for _, ref := range all {
		if ref.Path == "" {
			continue
		}
		if _, err := os.Stat(ref.Path); err != nil {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// Context carries everything the report builders need.
type Context struct {
	Title       string
	GeneratedAt time.Time
	Metrics     *metrics.Metrics

	// Sample preview of the source table.
	SampleColumns []string
	SampleRows    [][]string

	Charts ChartSet
}

// Money formats an amount with grouped thousands and two decimals.
func Money(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

// Count formats an integer with grouped thousands.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// SummaryLines returns the key-metric bullet lines shared by the PDF
// summary box, the metrics slide and the console output.
func (c *Context) SummaryLines() []string {
	m := c.Metrics
	return []string{
		"Total sales: " + Money(m.TotalSales),
		"Average ticket: " + Money(m.AvgTicket),
		"Total orders: " + Count(m.TotalOrders),
	}
}
