package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable read by New, e.g. MEDTRACK_DB_PATH.
const Prefix = "MEDTRACK"

// Config holds the settings shared by the CLI, the TUI and the MCP server.
// Command-line flags override the values loaded from the environment.
type Config struct {
	// Empty means the system-specific default location.
	DBPath string `envconfig:"DB_PATH" default:""`
	WAL    bool   `envconfig:"WAL" default:"false"`
	Sync   string `envconfig:"SYNC" default:"FULL"`

	Locale    string `envconfig:"LOCALE" default:"it"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	Calendar Calendar `envconfig:"CALENDAR"`
}

// Calendar configures the infinite date picker. Widths and the edge threshold
// are in the renderer's units (pixels in a browser, columns in a terminal).
type Calendar struct {
	MinOffset     int `envconfig:"MIN_OFFSET" default:"-15"`
	MaxOffset     int `envconfig:"MAX_OFFSET" default:"30"`
	Batch         int `envconfig:"BATCH" default:"15"`
	EdgeThreshold int `envconfig:"EDGE_THRESHOLD" default:"100"`
	CellWidth     int `envconfig:"CELL_WIDTH" default:"60"`
	DividerWidth  int `envconfig:"DIVIDER_WIDTH" default:"24"`
}

// Validate rejects settings the calendar or the database cannot work with.
func (c *Config) Validate() error {
	cal := c.Calendar
	if cal.MinOffset > 0 || cal.MaxOffset < 0 {
		return fmt.Errorf("calendar window [%d,%d] must contain today", cal.MinOffset, cal.MaxOffset)
	}
	if cal.Batch <= 0 {
		return fmt.Errorf("calendar batch must be positive, got %d", cal.Batch)
	}
	if cal.CellWidth <= 0 || cal.DividerWidth < 0 || cal.EdgeThreshold < 0 {
		return fmt.Errorf("invalid calendar geometry: cell %d, divider %d, threshold %d",
			cal.CellWidth, cal.DividerWidth, cal.EdgeThreshold)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT: %s", c.LogFormat)
	}
	return nil
}

// New creates a new Config by parsing MEDTRACK_* environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
