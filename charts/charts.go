// Package charts renders metric series to PNG files for embedding in PDF
// and PPTX reports.
package charts

import (
	"fmt"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"salesreport/config"
	"salesreport/metrics"
)

// Renderer holds the shared sizing and palette for all charts.
type Renderer struct {
	width     int
	height    int
	lineColor drawing.Color
	barColor  drawing.Color
}

// NewRenderer builds a renderer from the charts config section.
func NewRenderer(cfg config.ChartsConfig) *Renderer {
	return &Renderer{
		width:     cfg.Width,
		height:    cfg.Height,
		lineColor: drawing.ColorFromHex(cfg.LineColor),
		barColor:  drawing.ColorFromHex(cfg.BarColor),
	}
}

func (r *Renderer) lineStyle() chart.Style {
	return chart.Style{StrokeColor: r.lineColor, StrokeWidth: 2.0}
}

// amountFormatter renders axis values as grouped integers (1,234,567).
func amountFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return humanize.CommafWithDigits(f, 0)
	}
	return fmt.Sprint(v)
}

// TimeSeries renders the resampled sales series as a line chart.
func (r *Renderer) TimeSeries(points []metrics.Point, title, path string) error {
	if len(points) == 0 {
		return r.placeholder(title, path)
	}
	times, values := splitPoints(points)
	c := chart.Chart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: amountFormatter,
			Range:          flatRange(values),
		},
		Series: []chart.Series{
			chart.TimeSeries{Name: "sales", XValues: times, YValues: values, Style: r.lineStyle()},
		},
	}
	return renderToFile(&c, path)
}

// Cumulative renders the running-total series.
func (r *Renderer) Cumulative(points []metrics.Point, title, path string) error {
	return r.TimeSeries(points, title, path)
}

// TopItems renders the top-N ranking as a bar chart, largest first.
func (r *Renderer) TopItems(items []metrics.Item, title, path string) error {
	if len(items) == 0 {
		return r.placeholder(title, path)
	}
	bars := make([]chart.Value, len(items))
	for i, item := range items {
		bars[i] = chart.Value{Label: truncateLabel(item.Name), Value: item.Amount}
	}
	return r.renderBars(bars, title, path)
}

// DailyCounts renders per-day record counts as bars.
func (r *Renderer) DailyCounts(points []metrics.CountPoint, title, path string) error {
	if len(points) == 0 {
		return r.placeholder(title, path)
	}
	bars := make([]chart.Value, len(points))
	for i, p := range points {
		bars[i] = chart.Value{Label: p.Date.Format("01-02"), Value: float64(p.Count)}
	}
	return r.renderBars(bars, title, path)
}

// MonthlySales renders per-month totals as bars.
func (r *Renderer) MonthlySales(points []metrics.Point, title, path string) error {
	if len(points) == 0 {
		return r.placeholder(title, path)
	}
	bars := make([]chart.Value, len(points))
	for i, p := range points {
		bars[i] = chart.Value{Label: p.Date.Format("2006-01"), Value: p.Amount}
	}
	return r.renderBars(bars, title, path)
}

// Histogram renders the amount distribution.
func (r *Renderer) Histogram(bins []metrics.Bin, title, path string) error {
	if len(bins) == 0 {
		return r.placeholder(title, path)
	}
	bars := make([]chart.Value, len(bins))
	for i, b := range bins {
		bars[i] = chart.Value{
			Label: humanize.CommafWithDigits(b.Low, 0),
			Value: float64(b.Count),
		}
	}
	return r.renderBars(bars, title, path)
}

func (r *Renderer) renderBars(bars []chart.Value, title, path string) error {
	c := chart.BarChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		BarWidth: barWidth(r.width, len(bars)),
		Bars:     colorize(bars, r.barColor),
		YAxis: chart.YAxis{
			ValueFormatter: amountFormatter,
		},
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file %s: %w", path, err)
	}
	defer f.Close()
	if err := c.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart %s: %w", path, err)
	}
	return nil
}

// placeholder draws an empty framed chart so reports can always embed an
// image for the section.
func (r *Renderer) placeholder(title, path string) error {
	c := chart.Chart{
		Title:  title + " (no data)",
		Width:  r.width,
		Height: r.height,
		XAxis:  chart.XAxis{Style: chart.Hidden()},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 0},
				Style:   chart.Style{StrokeColor: chart.ColorAlternateGray},
			},
		},
	}
	return renderToFile(&c, path)
}

func renderToFile(c *chart.Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file %s: %w", path, err)
	}
	defer f.Close()
	if err := c.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart %s: %w", path, err)
	}
	return nil
}

// splitPoints converts the series to parallel slices, duplicating a lone
// point a day later so the chart library always has two x-values to draw.
func splitPoints(points []metrics.Point) ([]time.Time, []float64) {
	times := make([]time.Time, 0, len(points)+1)
	values := make([]float64, 0, len(points)+1)
	for _, p := range points {
		times = append(times, p.Date)
		values = append(values, p.Amount)
	}
	if len(times) == 1 {
		times = append(times, times[0].AddDate(0, 0, 1))
		values = append(values, values[0])
	}
	return times, values
}

// flatRange pins an explicit axis range when every value is identical;
// the library cannot derive a range from a flat series.
func flatRange(values []float64) chart.Range {
	if len(values) == 0 {
		return nil
	}
	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV != maxV {
		return nil
	}
	return &chart.ContinuousRange{Min: minV - 1, Max: maxV + 1}
}

func colorize(bars []chart.Value, color drawing.Color) []chart.Value {
	for i := range bars {
		bars[i].Style = chart.Style{FillColor: color, StrokeColor: color}
	}
	return bars
}

func barWidth(chartWidth, bars int) int {
	if bars == 0 {
		return 50
	}
	w := (chartWidth - 100) / (bars * 2)
	if w < 8 {
		w = 8
	}
	if w > 60 {
		w = 60
	}
	return w
}

func truncateLabel(s string) string {
	const limit = 16
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
