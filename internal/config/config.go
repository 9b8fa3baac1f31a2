package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DisplayTUI   = "tui"
	DisplayPlain = "plain"

	SourceAuto   = ""
	SourceProcfs = "procfs"
	SourcePsutil = "psutil"
)

// Duration lets YAML carry Go duration strings such as "3s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// HTTPConfig holds the status server settings. An empty ListenAddr disables it.
type HTTPConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// SystemdConfig controls sd_notify status updates.
type SystemdConfig struct {
	Notify bool `yaml:"notify"`
}

// Config is the top-level configuration struct for the indicator.
type Config struct {
	Interval        Duration      `yaml:"interval"`
	CounterFile     string        `yaml:"counter_file"`
	Source          string        `yaml:"source"`
	VirtualPrefixes []string      `yaml:"virtual_prefixes"`
	ClampNegative   bool          `yaml:"clamp_negative"`
	Display         string        `yaml:"display"`
	HTTP            HTTPConfig    `yaml:"http"`
	Systemd         SystemdConfig `yaml:"systemd"`
	LogLevel        string        `yaml:"log_level"`
	LogFile         string        `yaml:"log_file"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Interval:    Duration{3 * time.Second},
		CounterFile: "/proc/net/dev",
		Source:      SourceAuto,
		Display:     DisplayTUI,
		LogLevel:    "info",
	}
}

// LoadConfig reads the configuration from a YAML file on top of Default.
// An empty path returns the defaults.
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()
	if filePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Interval.Duration <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}

	switch c.Display {
	case DisplayTUI, DisplayPlain:
	default:
		return fmt.Errorf("unknown display %q", c.Display)
	}

	switch c.Source {
	case SourceAuto, SourceProcfs, SourcePsutil:
	default:
		return fmt.Errorf("unknown counter source %q", c.Source)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
