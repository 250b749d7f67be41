// dataclean sanitizes a raw sales CSV so the report generator can ingest
// it: currency symbols and grouping commas are stripped from price columns,
// percent signs from percentage columns, duplicate rows are dropped, and a
// main-category column is derived from pipe-separated category paths.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"

	"salesreport/metrics"
	"salesreport/table"
)

type Config struct {
	// Columns cleaned as currency amounts ("₹1,099" -> "1099").
	AmountColumns []string `yaml:"amount_columns"`
	// Columns cleaned as percentages ("64%" -> "64").
	PercentColumns []string `yaml:"percent_columns"`
	// Columns cleaned as grouped counts ("24,269" -> "24269").
	CountColumns []string `yaml:"count_columns"`
	// Pipe-separated category path column; its first segment is written to
	// MainCategoryColumn.
	CategoryColumn     string `yaml:"category_column"`
	MainCategoryColumn string `yaml:"main_category_column"`
	// Rows with an empty value in this column after cleaning are dropped.
	RequireColumn string `yaml:"require_column"`
	Dedup         bool   `yaml:"dedup"`
}

func defaultConfig() Config {
	return Config{
		AmountColumns:      []string{"discounted_price", "actual_price"},
		PercentColumns:     []string{"discount_percentage"},
		CountColumns:       []string{"rating_count"},
		CategoryColumn:     "category",
		MainCategoryColumn: "main_category",
		RequireColumn:      "discounted_price",
		Dedup:              true,
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func readConfig(path string) Config {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg
		}
		log.Fatalf("failed to read config: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

func main() {
	input := flag.String("input", "", "Raw CSV to clean")
	output := flag.String("output", "", "Destination for the cleaned CSV")
	configPath := flag.String("config", "cmd/dataclean/dataclean.yaml", "Path to cleaning config YAML")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		log.Fatal("missing -input or -output")
	}
	cfg := readConfig(*configPath)

	log.Printf("Reading %s", *input)
	raw, err := table.Read(*input)
	must(err)
	log.Printf("Loaded %s rows", humanize.Comma(int64(raw.Len())))

	cleaned, dropped := clean(raw, cfg)
	dupes := 0
	if cfg.Dedup {
		cleaned, dupes = dedup(cleaned)
	}
	log.Printf("Dropped %d rows without %s, %d duplicates", dropped, cfg.RequireColumn, dupes)

	must(writeCSV(cleaned, *output))
	log.Printf("Wrote %s rows to %s", humanize.Comma(int64(cleaned.Len())), *output)

	printCategoryStats(cleaned, cfg)
}

// clean returns a sanitized copy of t, with the main-category column
// appended when configured, and the count of rows dropped for an empty
// required column.
func clean(t *table.Table, cfg Config) (*table.Table, int) {
	amountIdx := columnSet(t, cfg.AmountColumns)
	percentIdx := columnSet(t, cfg.PercentColumns)
	countIdx := columnSet(t, cfg.CountColumns)
	catIdx := t.ColumnIndex(cfg.CategoryColumn)
	requireIdx := t.ColumnIndex(cfg.RequireColumn)

	out := &table.Table{Columns: append([]string(nil), t.Columns...)}
	addMain := catIdx >= 0 && cfg.MainCategoryColumn != ""
	if addMain {
		out.Columns = append(out.Columns, cfg.MainCategoryColumn)
	}

	dropped := 0
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		copy(cells, row)
		for j := range cells {
			if amountIdx[j] || percentIdx[j] || countIdx[j] {
				cells[j] = table.SanitizeAmount(cells[j])
			}
		}
		if requireIdx >= 0 && requireIdx < len(cells) && cells[requireIdx] == "" {
			dropped++
			continue
		}
		if addMain {
			cells = append(cells, mainCategory(t.Cell(i, catIdx)))
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, dropped
}

func columnSet(t *table.Table, names []string) map[int]bool {
	set := make(map[int]bool)
	for _, name := range names {
		if idx := t.ColumnIndex(name); idx >= 0 {
			set[idx] = true
		}
	}
	return set
}

// mainCategory takes the first segment of a pipe-separated category path.
func mainCategory(path string) string {
	if i := strings.IndexByte(path, '|'); i >= 0 {
		path = path[:i]
	}
	return strings.TrimSpace(path)
}

// dedup drops rows identical to an earlier row, keyed by an xxh3 hash of
// the joined cells.
func dedup(t *table.Table) (*table.Table, int) {
	out := &table.Table{Columns: t.Columns}
	seen := make(map[uint64]bool, t.Len())
	dupes := 0
	for _, row := range t.Rows {
		h := xxh3.HashString(strings.Join(row, "\x1f"))
		if seen[h] {
			dupes++
			continue
		}
		seen[h] = true
		out.Rows = append(out.Rows, row)
	}
	return out, dupes
}

func writeCSV(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func printCategoryStats(t *table.Table, cfg Config) {
	if len(cfg.AmountColumns) == 0 {
		return
	}
	groupCol := cfg.MainCategoryColumn
	if t.ColumnIndex(groupCol) < 0 {
		groupCol = cfg.CategoryColumn
	}
	coerced := table.EnforceTypes(t, "", cfg.AmountColumns[0], nil)
	stats := metrics.GroupStats(coerced, groupCol)
	if len(stats) == 0 {
		return
	}
	fmt.Printf("Per-category breakdown (%s by %s):\n", cfg.AmountColumns[0], groupCol)
	for _, s := range stats {
		fmt.Printf("  %-32s %6d rows  sum %-14s mean %s\n",
			s.Name, s.Count,
			humanize.CommafWithDigits(s.Sum, 2),
			humanize.CommafWithDigits(s.Mean, 2))
	}
}
