package cli_test

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/rshade/enviroimpact/internal/cli"
	"github.com/rshade/enviroimpact/internal/config"
	"github.com/rshade/enviroimpact/internal/stubbackend"
)

// setupCLITest isolates the test from the user's config, environment and
// terminal, and returns the URL of a stub calculation service.
func setupCLITest(t *testing.T, opts ...stubbackend.Option) string {
	t.Helper()

	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvLogLevel, "error")
	for _, key := range []string{
		config.EnvProjectDir, config.EnvBackendURL, config.EnvBackendTimeout,
		config.EnvOutputFormat, config.EnvLocale, config.EnvTimeFrame,
		config.EnvChartDir, config.EnvLogFormat, config.EnvLogFile,
	} {
		t.Setenv(key, "")
	}
	t.Setenv("NO_COLOR", "1")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})

	srv := httptest.NewServer(stubbackend.New(opts...).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// execute runs the root command with args and captures both streams.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// osloOffice are the form flags of the reference scenario.
func osloOffice() []string {
	return []string{
		"--region", "Oslo",
		"--facility-type", "office",
		"--size", "medium",
		"--usage-pattern", "office_hours",
	}
}
