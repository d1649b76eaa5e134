package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by New before the config file and environment are read.
const (
	DefaultBackendURL   = "http://localhost:8000"
	DefaultOutputFormat = "table"
	DefaultLocale       = "en"
	DefaultTimeFrame    = "year"
	configFileName      = "config.yaml"
	configDirName       = ".enviroimpact"
)

// Config is the full enviroimpact configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Output  OutputConfig  `yaml:"output"`
	Charts  ChartsConfig  `yaml:"charts"`
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig locates the calculation service.
type BackendConfig struct {
	// BaseURL is the root of the calculation service (no trailing slash required).
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// OutputConfig controls result presentation.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	// Locale is a BCP 47 tag used for number grouping (e.g. "en", "nb").
	Locale string `yaml:"locale"`
	// TimeFrame is the initial display frame, "year" or "month".
	TimeFrame string `yaml:"time_frame"`
}

// ChartsConfig controls file-rendered benchmark charts.
type ChartsConfig struct {
	// Directory receives one SVG per chart slot. Empty disables file charts.
	Directory string `yaml:"directory"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
}

// New returns a Config built from defaults, the user config file (if any),
// and environment overrides, in that order.
func New() *Config {
	cfg := fromUserFile()
	cfg.applyProcessEnv()
	return cfg
}

// fromUserFile returns the defaults overlaid with the user config file.
func fromUserFile() *Config {
	cfg := Defaults()

	if path, err := ConfigFilePath(); err == nil {
		if loadErr := cfg.LoadFile(path); loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
			// A broken config file should not make the CLI unusable.
			_, _ = fmt.Fprintf(os.Stderr, "Warning: ignoring config file %s: %v\n", path, loadErr)
		}
	}
	return cfg
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{BaseURL: DefaultBackendURL},
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
			Locale:        DefaultLocale,
			TimeFrame:     DefaultTimeFrame,
		},
		Charts: ChartsConfig{Width: 480, Height: 320},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFile overlays the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Save writes c to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend.base_url %q is not an absolute URL", c.Backend.BaseURL))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, fmt.Errorf("backend.timeout must be >= 0, got %s", c.Backend.Timeout))
	}

	switch c.Output.DefaultFormat {
	case "table", "json", "ndjson":
	default:
		errs = append(errs, fmt.Errorf("output.default_format %q must be table, json or ndjson", c.Output.DefaultFormat))
	}

	switch strings.ToLower(c.Output.TimeFrame) {
	case "year", "month":
	default:
		errs = append(errs, fmt.Errorf("output.time_frame %q must be year or month", c.Output.TimeFrame))
	}

	if c.Charts.Width < 0 || c.Charts.Height < 0 {
		errs = append(errs, errors.New("charts.width and charts.height must be >= 0"))
	}

	return errors.Join(errs...)
}

// ConfigFilePath returns the path of the user config file.
func ConfigFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
