// File: internal/config/config.go
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Report() ReportConfig
	Inspect() InspectConfig

	// Report Setters
	SetReportFormat(string)
	SetReportOutput(string)
	SetReportColor(string)

	// Inspect Setters
	SetInspectConcurrency(int)

	Validate() error
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	ReportCfg  ReportConfig  `mapstructure:"report" yaml:"report"`
	InspectCfg InspectConfig `mapstructure:"inspect" yaml:"inspect"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Report() ReportConfig   { return c.ReportCfg }
func (c *Config) Inspect() InspectConfig { return c.InspectCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetReportFormat(f string)   { c.ReportCfg.Format = f }
func (c *Config) SetReportOutput(p string)   { c.ReportCfg.Output = p }
func (c *Config) SetReportColor(mode string) { c.ReportCfg.Color = mode }
func (c *Config) SetInspectConcurrency(n int) {
	c.InspectCfg.Concurrency = n
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the color used for each log level in console output.
// Recognized names are black, red, green, yellow, blue, magenta, cyan and white.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`

	// Force emits color codes even when the output is not a terminal.
	Force bool `mapstructure:"force" yaml:"force"`
}

// ReportConfig controls how the output tree is rendered.
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // one of ReportFormats
	Output string `mapstructure:"output" yaml:"output"` // file path, "" or "stdout"
	Color  string `mapstructure:"color" yaml:"color"`   // auto, always or never
}

// InspectConfig holds the settings of the file inspector.
type InspectConfig struct {
	Concurrency      int     `mapstructure:"concurrency" yaml:"concurrency"`
	MaxFileSize      int64   `mapstructure:"max_file_size" yaml:"max_file_size"`
	EntropyThreshold float64 `mapstructure:"entropy_threshold" yaml:"entropy_threshold"`
	MaxURLs          int     `mapstructure:"max_urls" yaml:"max_urls"`
}

// EnvPrefix is prepended to every environment override, e.g.
// SCALPEL_TREE_REPORT_FORMAT for report.format.
const EnvPrefix = "SCALPEL_TREE"

// EnvKeyReplacer maps nested config keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Supported values for ReportConfig fields.
var (
	ReportFormats = []string{"raw", "json", "yaml", "toml", "sarif", "dot", "svg"}
	ColorModes    = []string{"auto", "always", "never"}
)

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "scalpel-tree")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Report --
	v.SetDefault("report.format", "raw")
	v.SetDefault("report.output", "stdout")
	v.SetDefault("report.color", "auto")

	// -- Inspect --
	v.SetDefault("inspect.concurrency", 4)
	v.SetDefault("inspect.max_file_size", 256<<20)
	v.SetDefault("inspect.entropy_threshold", 7.2)
	v.SetDefault("inspect.max_urls", 50)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.LoggerCfg.LogFile != "" {
		expanded, err := homedir.Expand(cfg.LoggerCfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("error expanding logger.log_file: %w", err)
		}
		cfg.LoggerCfg.LogFile = expanded
	}
	if out := cfg.ReportCfg.Output; out != "" && out != "stdout" {
		expanded, err := homedir.Expand(out)
		if err != nil {
			return nil, fmt.Errorf("error expanding report.output: %w", err)
		}
		cfg.ReportCfg.Output = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.ReportCfg.Validate(); err != nil {
		return fmt.Errorf("report configuration invalid: %w", err)
	}
	if err := c.InspectCfg.Validate(); err != nil {
		return fmt.Errorf("inspect configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the report settings.
func (r *ReportConfig) Validate() error {
	if !slices.Contains(ReportFormats, r.Format) {
		return fmt.Errorf("report.format must be one of %v, got %q", ReportFormats, r.Format)
	}
	if !slices.Contains(ColorModes, r.Color) {
		return fmt.Errorf("report.color must be one of %v, got %q", ColorModes, r.Color)
	}
	return nil
}

// Validate checks the inspector settings.
func (i *InspectConfig) Validate() error {
	if i.Concurrency <= 0 {
		return fmt.Errorf("inspect.concurrency must be a positive integer")
	}
	if i.MaxFileSize <= 0 {
		return fmt.Errorf("inspect.max_file_size must be a positive integer")
	}
	if i.EntropyThreshold <= 0 || i.EntropyThreshold > 8 {
		return fmt.Errorf("inspect.entropy_threshold must be in (0, 8]")
	}
	if i.MaxURLs < 0 {
		return fmt.Errorf("inspect.max_urls must not be negative")
	}
	return nil
}
