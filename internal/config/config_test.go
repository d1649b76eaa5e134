package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/enviroimpact/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Defaults()

	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Zero(t, cfg.Backend.Timeout)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Equal(t, "year", cfg.Output.TimeFrame)
	assert.Empty(t, cfg.Charts.Directory)
	require.NoError(t, cfg.Validate())
}

func TestNew_ReadsUserConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvBackendURL, "")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
backend:
  base_url: http://calc.internal:8000
  timeout: 30s
output:
  locale: nb
`), 0o600))

	cfg := config.New()

	assert.Equal(t, "http://calc.internal:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "nb", cfg.Output.Locale)
	// Unset keys keep their defaults.
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		config.EnvBackendURL:     "http://env:1234",
		config.EnvBackendTimeout: "2s",
		config.EnvOutputFormat:   "JSON",
		config.EnvTimeFrame:      "Month",
		config.EnvChartDir:       "/tmp/out",
		config.EnvLogLevel:       "debug",
		config.EnvLocale:         "   ",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.Defaults()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "http://env:1234", cfg.Backend.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, "month", cfg.Output.TimeFrame)
	assert.Equal(t, "/tmp/out", cfg.Charts.Directory)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Blank values are ignored.
	assert.Equal(t, config.DefaultLocale, cfg.Output.Locale)
}

func TestApplyEnv_RejectsBadTimeout(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"not a duration", "thirty", "is not a duration"},
		{"bare number", "30", "is not a duration"},
		{"negative", "-5s", "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				switch k {
				case config.EnvBackendTimeout:
					return tt.value, true
				case config.EnvTimeFrame:
					return "month", true
				}
				return "", false
			}

			cfg := config.Defaults()
			cfg.Backend.Timeout = 7 * time.Second
			err := cfg.ApplyEnv(lookup)

			require.Error(t, err)
			assert.Contains(t, err.Error(), config.EnvBackendTimeout)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, 7*time.Second, cfg.Backend.Timeout)
			// Other overrides still apply.
			assert.Equal(t, "month", cfg.Output.TimeFrame)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"relative url", func(c *config.Config) { c.Backend.BaseURL = "localhost" }, "backend.base_url"},
		{"negative timeout", func(c *config.Config) { c.Backend.Timeout = -time.Second }, "backend.timeout"},
		{"bad format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }, "output.default_format"},
		{"bad time frame", func(c *config.Config) { c.Output.TimeFrame = "week" }, "output.time_frame"},
		{"negative chart size", func(c *config.Config) { c.Charts.Width = -1 }, "charts.width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.Defaults()
	cfg.Charts.Directory = "/var/charts"

	require.NoError(t, cfg.Save(path))

	loaded := config.Defaults()
	require.NoError(t, loaded.LoadFile(path))
	assert.Equal(t, "/var/charts", loaded.Charts.Directory)
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("loads values without overriding existing ones", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte(
			"ENVIROIMPACT_TEST_DOTENV_A=from-file\nENVIROIMPACT_TEST_DOTENV_B=from-file\n"), 0o600))
		t.Setenv("ENVIROIMPACT_TEST_DOTENV_B", "from-env")
		t.Cleanup(func() { _ = os.Unsetenv("ENVIROIMPACT_TEST_DOTENV_A") })

		require.NoError(t, config.LoadDotEnv(path))

		assert.Equal(t, "from-file", os.Getenv("ENVIROIMPACT_TEST_DOTENV_A"))
		assert.Equal(t, "from-env", os.Getenv("ENVIROIMPACT_TEST_DOTENV_B"))
	})
}

func TestLoggingConfig_ToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "warn", Format: "json"}
	assert.Equal(t, "stderr", lc.ToLoggingConfig().Output)

	lc.File = "/tmp/enviroimpact.log"
	out := lc.ToLoggingConfig()
	assert.Equal(t, "file", out.Output)
	assert.Equal(t, "/tmp/enviroimpact.log", out.File)
}
