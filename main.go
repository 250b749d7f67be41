// salesreport ingests a tabular sales dataset (CSV, JSON, plist or SQLite),
// derives summary metrics and renders them as PDF, PPTX, XLSX or JSON
// reports with embedded charts. With -dashboard it opens an interactive
// terminal view instead.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	humanize "github.com/dustin/go-humanize"
	"golang.org/x/term"

	"salesreport/charts"
	"salesreport/config"
	"salesreport/metrics"
	"salesreport/report"
	"salesreport/table"
	"salesreport/ui"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	input := flag.String("input", "", "Input dataset (.csv, .json, .plist, .db/.sqlite)")
	dateCol := flag.String("datecol", "date", "Name of the date column")
	amountCol := flag.String("amountcol", "amount", "Name of the amount column")
	title := flag.String("title", "Sales Report", "Report title")
	topN := flag.Int("topn", 0, "Top-N group count (0 takes the config value)")
	pdfPath := flag.String("pdf", "", "Write a PDF report to this path")
	pptxPath := flag.String("pptx", "", "Write a PPTX report to this path")
	xlsxPath := flag.String("xlsx", "", "Write an XLSX report to this path")
	jsonPath := flag.String("json", "", "Write the metrics as JSON to this path")
	configPath := flag.String("config", "salesreport.yaml", "Path to config YAML")
	logPath := flag.String("logfile", "", "Also append log output to this file")
	dashboard := flag.Bool("dashboard", false, "Open the interactive terminal dashboard")
	flag.Parse()

	closeLog, err := setupLogging(*logPath)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()

	if *input == "" {
		flag.Usage()
		log.Fatal("missing -input")
	}
	if !*dashboard && *pdfPath == "" && *pptxPath == "" && *xlsxPath == "" && *jsonPath == "" {
		log.Fatal("nothing to do: pass -dashboard or at least one of -pdf, -pptx, -xlsx, -json")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("failed to load config %s: %v", *configPath, err)
		}
		cfg = config.Default()
	}
	if *topN > 0 {
		cfg.Metrics.TopN = *topN
	}
	// Configuration goes to stdout only while the dashboard is not holding
	// the terminal.
	if !*dashboard {
		cfg.Print()
	}

	log.Printf("Reading %s", *input)
	raw, err := table.ReadWith(*input, table.ReadOptions{SQLiteTable: cfg.Ingest.SQLiteTable})
	must(err)
	log.Printf("Loaded %d rows, %d columns", raw.Len(), len(raw.Columns))

	tbl := table.EnforceTypes(raw, *dateCol, *amountCol, cfg.Metrics.ExtraDateLayouts)
	if dropped := raw.Len() - tbl.Len(); dropped > 0 {
		log.Printf("Dropped %d rows with unparseable dates", dropped)
	}

	m := metrics.Compute(tbl, metrics.Options{
		DateCol:      *dateCol,
		AmountCol:    *amountCol,
		TopN:         cfg.Metrics.TopN,
		GroupColumns: cfg.Metrics.GroupColumns,
	})

	if *dashboard {
		must(ui.NewDashboard(*title, m).Run())
		return
	}

	chartSet, err := renderCharts(cfg, m)
	if err != nil {
		log.Printf("Chart rendering incomplete: %v", err)
	}

	ctx := &report.Context{
		Title:         *title,
		GeneratedAt:   time.Now(),
		Metrics:       m,
		SampleColumns: tbl.Columns,
		SampleRows:    tbl.Sample(cfg.Ingest.SampleRows),
		Charts:        chartSet,
	}

	if *pdfPath != "" {
		must(report.BuildPDF(ctx, *pdfPath))
		log.Printf("Wrote %s", *pdfPath)
	}
	if *pptxPath != "" {
		must(report.BuildPPTX(ctx, *pptxPath))
		log.Printf("Wrote %s", *pptxPath)
	}
	if *xlsxPath != "" {
		must(report.BuildXLSX(ctx, *xlsxPath))
		log.Printf("Wrote %s", *xlsxPath)
	}
	if *jsonPath != "" {
		must(report.BuildJSON(ctx, *jsonPath))
		log.Printf("Wrote %s", *jsonPath)
	}

	printSummary(ctx)
}

// renderCharts writes every chart PNG into the configured output dir. A
// failed chart is logged and skipped; the report builders only embed files
// that exist.
func renderCharts(cfg *config.Config, m *metrics.Metrics) (report.ChartSet, error) {
	dir := cfg.Output.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report.ChartSet{}, fmt.Errorf("failed to create chart dir %s: %w", dir, err)
	}
	r := charts.NewRenderer(cfg.Charts)

	cs := report.ChartSet{
		TimeSeries:   filepath.Join(dir, "time_series.png"),
		TopItems:     filepath.Join(dir, "top_items.png"),
		DailyCounts:  filepath.Join(dir, "daily_counts.png"),
		MonthlySales: filepath.Join(dir, "monthly_sales.png"),
		Cumulative:   filepath.Join(dir, "cumulative.png"),
		Distribution: filepath.Join(dir, "distribution.png"),
	}

	var firstErr error
	render := func(name string, fn func() error) {
		if err := fn(); err != nil {
			log.Printf("Chart %s failed: %v", name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	render("time series", func() error { return r.TimeSeries(m.TimeSeries, "Sales over time", cs.TimeSeries) })
	render("top items", func() error { return r.TopItems(m.TopItems, "Top items", cs.TopItems) })
	render("daily counts", func() error { return r.DailyCounts(m.DailyCounts, "Records per day", cs.DailyCounts) })
	render("monthly sales", func() error { return r.MonthlySales(m.MonthlySales, "Monthly sales", cs.MonthlySales) })
	render("cumulative", func() error { return r.Cumulative(m.Cumulative, "Cumulative sales", cs.Cumulative) })
	render("distribution", func() error { return r.Histogram(m.Distribution, "Amount distribution", cs.Distribution) })
	return cs, firstErr
}

// printSummary writes the key metrics to stdout, with a bit of framing when
// attached to a terminal.
func printSummary(ctx *report.Context) {
	pretty := term.IsTerminal(int(os.Stdout.Fd()))
	if pretty {
		fmt.Printf("\n=== %s ===\n", ctx.Title)
	} else {
		fmt.Printf("%s\n", ctx.Title)
	}
	for _, line := range ctx.SummaryLines() {
		fmt.Println(line)
	}
	m := ctx.Metrics
	if m.GroupColumn != "" {
		fmt.Printf("Top %d by %q:\n", len(m.TopItems), m.GroupColumn)
		for i, item := range m.TopItems {
			fmt.Printf("  %2d. %-24s %s\n", i+1, item.Name, humanize.CommafWithDigits(item.Amount, 2))
		}
	}
	if m.Granularity != "" {
		fmt.Printf("Time series: %d %s buckets\n", len(m.TimeSeries), m.Granularity)
	}
}
