package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete report generator configuration
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Charts  ChartsConfig  `yaml:"charts"`
	Metrics MetricsConfig `yaml:"metrics"`
	Ingest  IngestConfig  `yaml:"ingest"`
}

// OutputConfig contains output location settings
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ChartsConfig contains chart rendering settings
type ChartsConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	LineColor string `yaml:"line_color"`
	BarColor  string `yaml:"bar_color"`
}

// MetricsConfig contains aggregation settings
type MetricsConfig struct {
	TopN int `yaml:"topn"`
	// GroupColumns overrides the built-in grouping column candidates
	// (item, product, name, category) when non-empty.
	GroupColumns []string `yaml:"group_columns"`
	// ExtraDateLayouts are tried after the built-in date layouts.
	ExtraDateLayouts []string `yaml:"extra_date_layouts"`
}

// IngestConfig contains input-format settings
type IngestConfig struct {
	// SQLiteTable names the table to read when the input is a SQLite file.
	// Empty means the single user table is auto-detected.
	SQLiteTable string `yaml:"sqlite_table"`
	// SampleRows is how many leading rows are carried into report output.
	SampleRows int `yaml:"sample_rows"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Dir: "output"},
		Charts: ChartsConfig{
			Width:     1200,
			Height:    600,
			LineColor: "2E86AB",
			BarColor:  "A23B72",
		},
		Metrics: MetricsConfig{TopN: 5},
		Ingest:  IngestConfig{SampleRows: 10},
	}
}

// Load loads configuration from a YAML file, filling unset fields from defaults
func Load(filename string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Charts.Width <= 0 {
		cfg.Charts.Width = 1200
	}
	if cfg.Charts.Height <= 0 {
		cfg.Charts.Height = 600
	}
	if cfg.Metrics.TopN <= 0 {
		cfg.Metrics.TopN = 5
	}
	if cfg.Ingest.SampleRows <= 0 {
		cfg.Ingest.SampleRows = 10
	}
	return cfg, nil
}

// Print displays the configuration
func (c *Config) Print() {
	fmt.Printf("Output dir: %s\n", c.Output.Dir)
	fmt.Printf("Charts: %dx%d (line=#%s bar=#%s)\n", c.Charts.Width, c.Charts.Height, c.Charts.LineColor, c.Charts.BarColor)
	fmt.Printf("Top-N: %d\n", c.Metrics.TopN)
	if len(c.Metrics.GroupColumns) > 0 {
		fmt.Printf("Group columns: %s\n", strings.Join(c.Metrics.GroupColumns, ", "))
	}
	if c.Ingest.SQLiteTable != "" {
		fmt.Printf("SQLite table: %s\n", c.Ingest.SQLiteTable)
	}
}
