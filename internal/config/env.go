package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvHome           = "ENVIROIMPACT_HOME"
	EnvProjectDir     = "ENVIROIMPACT_PROJECT_DIR"
	EnvBackendURL     = "ENVIROIMPACT_BACKEND_URL"
	EnvBackendTimeout = "ENVIROIMPACT_BACKEND_TIMEOUT"
	EnvOutputFormat   = "ENVIROIMPACT_OUTPUT_FORMAT"
	EnvLocale         = "ENVIROIMPACT_LOCALE"
	EnvTimeFrame      = "ENVIROIMPACT_TIME_FRAME"
	EnvChartDir       = "ENVIROIMPACT_CHART_DIR"
	EnvLogLevel       = "ENVIROIMPACT_LOG_LEVEL"
	EnvLogFormat      = "ENVIROIMPACT_LOG_FORMAT"
	EnvLogFile        = "ENVIROIMPACT_LOG_FILE"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files (default ".env")
// into the process environment. Variables that are already set win, and a
// missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overlays environment variables onto c using lookupEnv. Values
// that cannot be used are left out of c and reported in the returned error.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	var rejected []error

	if v, ok := nonEmpty(lookupEnv, EnvBackendURL); ok {
		c.Backend.BaseURL = v
	}
	if v, ok := nonEmpty(lookupEnv, EnvBackendTimeout); ok {
		d, err := time.ParseDuration(v)
		switch {
		case err != nil:
			rejected = append(rejected, fmt.Errorf("%s=%q is not a duration", EnvBackendTimeout, v))
		case d < 0:
			rejected = append(rejected, fmt.Errorf("%s=%q must not be negative", EnvBackendTimeout, v))
		default:
			c.Backend.Timeout = d
		}
	}
	if v, ok := nonEmpty(lookupEnv, EnvOutputFormat); ok {
		c.Output.DefaultFormat = strings.ToLower(v)
	}
	if v, ok := nonEmpty(lookupEnv, EnvLocale); ok {
		c.Output.Locale = v
	}
	if v, ok := nonEmpty(lookupEnv, EnvTimeFrame); ok {
		c.Output.TimeFrame = strings.ToLower(v)
	}
	if v, ok := nonEmpty(lookupEnv, EnvChartDir); ok {
		c.Charts.Directory = v
	}
	if v, ok := nonEmpty(lookupEnv, EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := nonEmpty(lookupEnv, EnvLogFormat); ok {
		c.Logging.Format = v
	}
	if v, ok := nonEmpty(lookupEnv, EnvLogFile); ok {
		c.Logging.File = v
	}

	return errors.Join(rejected...)
}

// applyProcessEnv applies the process environment and warns about rejected
// values on stderr.
func (c *Config) applyProcessEnv() {
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: ignoring environment override: %v\n", err)
	}
}

func nonEmpty(lookupEnv func(string) (string, bool), key string) (string, bool) {
	v, ok := lookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
