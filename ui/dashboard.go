// Package ui renders the interactive terminal dashboard over the computed
// metrics. It is a viewer, not an editor: all data is derived before the
// application starts and the only interaction is scrolling and quitting.
package ui

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"salesreport/metrics"
)

var (
	uiBorderColor = tcell.ColorGray
	uiTitleColor  = tcell.ColorTeal
	uiHeaderColor = tcell.ColorYellow
)

// Dashboard is the single-page metrics viewer.
type Dashboard struct {
	app     *tview.Application
	metrics *metrics.Metrics
	title   string
}

func NewDashboard(title string, m *metrics.Metrics) *Dashboard {
	return &Dashboard{
		app:     tview.NewApplication(),
		metrics: m,
		title:   title,
	}
}

// Run blocks until the user quits with q or Esc.
func (d *Dashboard) Run() error {
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.summaryView(), 7, 0, false).
		AddItem(tview.NewFlex().
			AddItem(d.topItemsTable(), 0, 1, true).
			AddItem(d.timeSeriesTable(), 0, 1, false), 0, 1, true).
		AddItem(d.footerView(), 1, 0, false)

	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || event.Rune() == 'q' {
			d.app.Stop()
			return nil
		}
		return event
	})

	return d.app.SetRoot(root, true).Run()
}

func (d *Dashboard) summaryView() *tview.TextView {
	tv := newBoxedTextView(d.title)
	m := d.metrics
	group := m.GroupColumn
	if group == "" {
		group = "(none)"
	}
	gran := m.Granularity
	if gran == "" {
		gran = "(no series)"
	}
	fmt.Fprintf(tv, " Total sales:    [yellow]%s[-]\n", humanize.CommafWithDigits(m.TotalSales, 2))
	fmt.Fprintf(tv, " Average ticket: [yellow]%s[-]\n", humanize.CommafWithDigits(m.AvgTicket, 2))
	fmt.Fprintf(tv, " Total orders:   [yellow]%s[-]\n", humanize.Comma(int64(m.TotalOrders)))
	fmt.Fprintf(tv, " Grouped by %s, %s buckets", group, gran)
	return tv
}

func (d *Dashboard) topItemsTable() *tview.Table {
	tb := newBoxedTable("Top Items")
	setHeader(tb, "#", "Item", "Amount")
	for i, item := range d.metrics.TopItems {
		tb.SetCell(i+1, 0, tview.NewTableCell(fmt.Sprintf("%d", i+1)))
		tb.SetCell(i+1, 1, tview.NewTableCell(item.Name).SetExpansion(1))
		tb.SetCell(i+1, 2, tview.NewTableCell(humanize.CommafWithDigits(item.Amount, 2)).
			SetAlign(tview.AlignRight))
	}
	return tb
}

func (d *Dashboard) timeSeriesTable() *tview.Table {
	tb := newBoxedTable("Sales Over Time")
	setHeader(tb, "Bucket", "Sales")
	for i, pt := range d.metrics.TimeSeries {
		tb.SetCell(i+1, 0, tview.NewTableCell(pt.Date.Format("2006-01-02")))
		tb.SetCell(i+1, 1, tview.NewTableCell(humanize.CommafWithDigits(pt.Amount, 2)).
			SetAlign(tview.AlignRight).SetExpansion(1))
	}
	return tb
}

func (d *Dashboard) footerView() *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true)
	fmt.Fprint(tv, " [gray]q / Esc quit, arrows scroll[-]")
	return tv
}

func newBoxedTextView(title string) *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBorder(true).
		SetBorderColor(uiBorderColor).
		SetTitle(" " + title + " ").
		SetTitleColor(uiTitleColor)
	return tv
}

func newBoxedTable(title string) *tview.Table {
	tb := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	tb.SetBorder(true).
		SetBorderColor(uiBorderColor).
		SetTitle(" " + title + " ").
		SetTitleColor(uiTitleColor)
	return tb
}

func setHeader(tb *tview.Table, cols ...string) {
	for i, col := range cols {
		tb.SetCell(0, i, tview.NewTableCell(col).
			SetTextColor(uiHeaderColor).
			SetSelectable(false))
	}
}
