// Package config provides configuration file support for the
// interruption report pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full pipeline configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Logging LoggingConfig `yaml:"logging"`
	Plotter PlotterConfig `yaml:"plotter"`
	Webhook WebhookConfig `yaml:"webhook"`
	Lock    LockConfig    `yaml:"lock"`
}

// PathsConfig holds the directory profile for a run. Flight runs use
// the published tree; test runs are redirected by TestProfile.
type PathsConfig struct {
	// DataDir holds the event store, audit log, and lock file.
	DataDir string `yaml:"data_dir"`
	// WebDir is the published report tree (index pages + artifacts).
	WebDir string `yaml:"web_dir"`
	// SpaceWeatherDir is the root of the instrument archive tree.
	SpaceWeatherDir string `yaml:"space_weather_dir"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text
}

// PlotterConfig names the external command that renders the per-event
// intro plot. Pixel generation is not done in-process; when Command is
// empty the plot step is skipped with a warning. Args may carry
// {name}, {start}, {stop}, and {out} placeholders.
type PlotterConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// WebhookConfig configures the report.published notification.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
	Timeout string `yaml:"timeout"`
}

// LockConfig configures the flight-run lock file.
type LockConfig struct {
	TTL string `yaml:"ttl"`
}

// Default returns the flight configuration shipped with the tool.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:         "/data/mta/interrupt/Data",
			WebDir:          "/data/mta_www/mta_interrupt",
			SpaceWeatherDir: "/data/mta4/Space_Weather",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Lock: LockConfig{
			TTL: "2h",
		},
	}
}

// Load reads configuration from path. An empty path falls back to the
// INTERRUPT_CONFIG environment variable; a missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("INTERRUPT_CONFIG")
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes configuration to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// TestProfile returns a copy of cfg with every output directory
// redirected under root. Test runs must never touch the published
// tree; only the read-only archive dir is carried over.
func (c *Config) TestProfile(root string) *Config {
	out := *c
	sandbox := filepath.Join(root, "test", "outTest")
	out.Paths = PathsConfig{
		DataDir:         sandbox,
		WebDir:          sandbox,
		SpaceWeatherDir: c.Paths.SpaceWeatherDir,
	}
	out.Webhook.Enabled = false
	return &out
}

// LockTTL parses the configured lock lease, defaulting to two hours.
func (c *Config) LockTTL() time.Duration {
	d, err := time.ParseDuration(c.Lock.TTL)
	if err != nil || d <= 0 {
		return 2 * time.Hour
	}
	return d
}

// WebhookTimeout parses the configured webhook timeout, defaulting to
// ten seconds.
func (c *Config) WebhookTimeout() time.Duration {
	d, err := time.ParseDuration(c.Webhook.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
