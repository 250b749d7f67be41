package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/signintech/gopdf"
	"github.com/wcharczuk/go-chart/v2/roboto"
)

// A4 portrait, in points.
const (
	pageWidth  = 595.28
	pageHeight = 841.89
	marginX    = 40.0
)

// pdfWriter wraps gopdf with the cursor helpers the report layout needs.
type pdfWriter struct {
	pdf gopdf.GoPdf
	y   float64
}

// BuildPDF writes the full PDF report: title banner, key metrics, every
// available chart, the top-N table and a sample-row preview.
func BuildPDF(ctx *Context, path string) error {
	w := &pdfWriter{}
	w.pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	// The chart library ships Roboto; reusing it keeps the binary free of
	// font-file lookups.
	if err := w.pdf.AddTTFFontData("roboto", roboto.Roboto); err != nil {
		return fmt.Errorf("failed to load embedded font: %w", err)
	}

	w.titlePage(ctx)
	w.metricsSection(ctx)
	w.topItemsTable(ctx)
	w.chartPages(ctx)
	w.samplePage(ctx)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := w.pdf.WritePdf(path); err != nil {
		return fmt.Errorf("failed to write PDF %s: %w", path, err)
	}
	return nil
}

func (w *pdfWriter) setFont(size float64) {
	_ = w.pdf.SetFont("roboto", "", size)
}

func (w *pdfWriter) text(x float64, s string) {
	w.pdf.SetX(x)
	w.pdf.SetY(w.y)
	_ = w.pdf.Cell(nil, s)
}

// ensureRoom starts a new page when fewer than need points remain.
func (w *pdfWriter) ensureRoom(need float64) {
	if w.y+need > pageHeight-40 {
		w.pdf.AddPage()
		w.y = 50
	}
}

func (w *pdfWriter) titlePage(ctx *Context) {
	w.pdf.AddPage()

	w.pdf.SetFillColor(46, 134, 171)
	w.pdf.RectFromUpperLeftWithStyle(0, 0, pageWidth, 110, "F")

	w.pdf.SetTextColor(255, 255, 255)
	w.setFont(26)
	w.y = 38
	w.text(marginX, ctx.Title)
	w.setFont(11)
	w.y = 78
	w.text(marginX, "Generated: "+ctx.GeneratedAt.Format("02.01.2006 15:04"))

	w.pdf.SetTextColor(40, 40, 40)
	w.y = 140
}

func (w *pdfWriter) metricsSection(ctx *Context) {
	w.pdf.SetFillColor(245, 247, 250)
	w.pdf.RectFromUpperLeftWithStyle(30, w.y-10, pageWidth-60, 96, "F")

	w.setFont(16)
	w.text(marginX, "Key metrics")
	w.y += 26
	w.setFont(12)
	for _, line := range ctx.SummaryLines() {
		w.text(marginX+8, line)
		w.y += 18
	}
	w.y += 24
}

func (w *pdfWriter) topItemsTable(ctx *Context) {
	items := ctx.Metrics.TopItems
	if len(items) == 0 {
		return
	}
	w.ensureRoom(40 + float64(len(items))*18)

	w.setFont(16)
	w.text(marginX, "Top items")
	w.y += 24

	const amountX = 400.0
	w.setFont(11)
	w.text(marginX, "#")
	w.text(marginX+30, "Item")
	w.text(amountX, "Amount")
	w.y += 6
	w.pdf.SetStrokeColor(46, 134, 171)
	w.pdf.SetLineWidth(0.8)
	w.pdf.Line(marginX, w.y+4, pageWidth-marginX, w.y+4)
	w.y += 14

	for i, item := range items {
		w.ensureRoom(18)
		w.text(marginX, fmt.Sprintf("%d", i+1))
		w.text(marginX+30, clip(item.Name, 60))
		w.text(amountX, Money(item.Amount))
		w.y += 18
	}
	w.y += 20
}

func (w *pdfWriter) chartPages(ctx *Context) {
	for _, ref := range ctx.Charts.Existing() {
		w.pdf.AddPage()
		w.y = 50
		w.setFont(16)
		w.text(marginX, ref.Title)

		img := gopdf.Rect{W: pageWidth - 2*marginX, H: (pageWidth - 2*marginX) / 2}
		if err := w.pdf.Image(ref.Path, marginX, 80, &img); err != nil {
			// A broken image should not sink the whole report.
			w.y = 90
			w.setFont(11)
			w.text(marginX, "chart unavailable: "+err.Error())
		}
		w.y = 80 + img.H + 20
	}
}

func (w *pdfWriter) samplePage(ctx *Context) {
	if len(ctx.SampleRows) == 0 {
		return
	}
	w.pdf.AddPage()
	w.y = 50
	w.setFont(16)
	w.text(marginX, "Data sample")
	w.y += 28

	// Fit at most six columns across the page.
	cols := len(ctx.SampleColumns)
	if cols > 6 {
		cols = 6
	}
	colWidth := (pageWidth - 2*marginX) / float64(cols)

	w.setFont(10)
	for i := 0; i < cols; i++ {
		w.text(marginX+float64(i)*colWidth, clip(ctx.SampleColumns[i], 18))
	}
	w.y += 6
	w.pdf.SetStrokeColor(150, 150, 150)
	w.pdf.SetLineWidth(0.5)
	w.pdf.Line(marginX, w.y+4, pageWidth-marginX, w.y+4)
	w.y += 14

	w.setFont(9)
	for _, row := range ctx.SampleRows {
		w.ensureRoom(16)
		for i := 0; i < cols && i < len(row); i++ {
			w.text(marginX+float64(i)*colWidth, clip(row[i], 18))
		}
		w.y += 16
	}
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
