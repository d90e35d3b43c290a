// Package config holds the service configuration: built-in defaults, an
// optional YAML file, and command-line overrides applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag, environment or file.
	DefaultDatabaseURL = ""

	// DefaultViewerTimezone is used to render deadlines when a request names no zone.
	DefaultViewerTimezone = "UTC"

	// DefaultCheckInterval is how often the server scans for workspaces past their deadline.
	DefaultCheckInterval = time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMaxConns int32 = 10
	DefaultMinConns int32 = 2
)

// Config is the complete service configuration.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Port           string        `yaml:"port"`
	ViewerTimezone string        `yaml:"viewer_timezone"`
	CheckInterval  time.Duration `yaml:"check_interval"`

	Database Database `yaml:"database"`
}

// Database configures the PostgreSQL connection pool.
type Database struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
	MinConns int32  `yaml:"min_conns"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		Port:           DefaultPort,
		ViewerTimezone: DefaultViewerTimezone,
		CheckInterval:  DefaultCheckInterval,
		Database: Database{
			URL:      DefaultDatabaseURL,
			MaxConns: DefaultMaxConns,
			MinConns: DefaultMinConns,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports configuration values the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.CheckInterval < time.Second {
		errs = append(errs, fmt.Errorf("check_interval must be at least 1s, got %s", c.CheckInterval))
	}
	if c.Database.MaxConns < 1 {
		errs = append(errs, fmt.Errorf("database.max_conns must be positive, got %d", c.Database.MaxConns))
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, fmt.Errorf("database.min_conns must be between 0 and max_conns, got %d", c.Database.MinConns))
	}
	return errors.Join(errs...)
}
