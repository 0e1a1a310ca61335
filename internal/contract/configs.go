package contract

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/cellplot/cellplot/schema"
)

// Default values for configuration.
const (
	DefaultPrecision     = 3
	MaxPrecision         = 6
	DefaultListen        = "127.0.0.1:5000"
	DefaultStaticDir     = "static"
	DefaultBaseURL       = "http://127.0.0.1:5000"
	DefaultChartWidth    = 1200
	DefaultChartHeight   = 675
	DefaultChartDPI      = 150.0
	DefaultRenderWorkers = 1
	DefaultPruneSchedule = "@every 1h"
	DefaultPruneMaxAge   = "7d"
	DefaultLogLevel      = "info"
)

// MaxRenderWorkers caps the render pool size.
var MaxRenderWorkers = runtime.GOMAXPROCS(0) * 4

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ChartConfig holds the canvas settings of the chart composer.
type ChartConfig struct {
	Width         int
	Height        int
	DPI           float64
	RenderWorkers int
}

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Listen    string
	StaticDir string
	BaseURL   string

	Chart ChartConfig

	PruneSchedule string
	PruneMaxAge   time.Duration

	LogLevel  string
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DBBackend  string `mapstructure:"db-backend"`
	DBConnect  string `mapstructure:"db-connect"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`
	LogLevel   string `mapstructure:"log-level"`
	LogFormat  string `mapstructure:"log-format"`

	// --- Chart canvas settings ---
	ChartWidth    int     `mapstructure:"chart-width"`
	ChartHeight   int     `mapstructure:"chart-height"`
	ChartDPI      float64 `mapstructure:"chart-dpi"`
	RenderWorkers int     `mapstructure:"render-workers"`

	// --- Fields from serveCmd.Flags() ---
	Listen        string `mapstructure:"listen"`
	StaticDir     string `mapstructure:"static-dir"`
	BaseURL       string `mapstructure:"base-url"`
	PruneSchedule string `mapstructure:"prune-schedule"`
	PruneMaxAge   string `mapstructure:"prune-max-age"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processChartConfig(cfg, input); err != nil {
		return err
	}
	if err := processServeConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend lowercases and validates a backend name.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateBackendConfig validates the record store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.DBBackend)
	if err != nil {
		return err
	}
	cfg.Backend = backend
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect)
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogLevel = input.LogLevel
	cfg.LogFormat = input.LogFormat

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}
	return nil
}

// processChartConfig validates the canvas settings, falling back to defaults for zero values.
func processChartConfig(cfg *Config, input *ConfigRawInput) error {
	chart := ChartConfig{
		Width:         input.ChartWidth,
		Height:        input.ChartHeight,
		DPI:           input.ChartDPI,
		RenderWorkers: input.RenderWorkers,
	}
	if chart.Width == 0 {
		chart.Width = DefaultChartWidth
	}
	if chart.Height == 0 {
		chart.Height = DefaultChartHeight
	}
	if chart.DPI == 0 {
		chart.DPI = DefaultChartDPI
	}
	if chart.RenderWorkers == 0 {
		chart.RenderWorkers = DefaultRenderWorkers
	}

	if chart.Width < 100 || chart.Height < 100 {
		return fmt.Errorf("chart size must be at least 100x100 (received %dx%d)", chart.Width, chart.Height)
	}
	if chart.DPI < 0 {
		return fmt.Errorf("chart-dpi must be positive (received %g)", chart.DPI)
	}
	if chart.RenderWorkers < 0 || chart.RenderWorkers > MaxRenderWorkers {
		return fmt.Errorf("render-workers must be between 1 and %d (received %d)", MaxRenderWorkers, chart.RenderWorkers)
	}
	cfg.Chart = chart
	return nil
}

// processServeConfig fills in the HTTP server and image store settings.
func processServeConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Listen = input.Listen
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	cfg.StaticDir = input.StaticDir
	if cfg.StaticDir == "" {
		cfg.StaticDir = DefaultStaticDir
	}
	cfg.BaseURL = strings.TrimRight(input.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.PruneSchedule = input.PruneSchedule

	maxAge := input.PruneMaxAge
	if maxAge == "" {
		maxAge = DefaultPruneMaxAge
	}
	age, err := ParseAge(maxAge)
	if err != nil {
		return fmt.Errorf("invalid --prune-max-age: %w", err)
	}
	cfg.PruneMaxAge = age
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ParseAge parses a duration such as "90m", "12h" or "7d". Days are not understood by
// time.ParseDuration so they are handled here.
func ParseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive (received %s)", s)
	}
	return d, nil
}
