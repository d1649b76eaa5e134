package cli_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/cli"
)

func TestNewCalculateCmd_Flags(t *testing.T) {
	cmd := cli.NewCalculateCmd()

	for _, name := range []string{
		"region", "facility-type", "size", "usage-pattern",
		"custom-kwh", "custom-emission-factor", "custom-price-per-kwh",
		"time-frame", "output", "chart-dir",
	} {
		t.Run(name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(name)
			require.NotNil(t, flag)
			assert.Empty(t, flag.DefValue)
		})
	}
	assert.Equal(t, "false", cmd.Flags().Lookup("plain").DefValue)
}

func TestValidateCalculateFlags(t *testing.T) {
	tests := []struct {
		name        string
		params      cli.CalculateParams
		errContains string
	}{
		{name: "defaults", params: cli.CalculateParams{}},
		{name: "month json", params: cli.CalculateParams{TimeFrame: "Month", Output: "JSON"}},
		{name: "bad time frame", params: cli.CalculateParams{TimeFrame: "week"}, errContains: "--time-frame"},
		{name: "bad output", params: cli.CalculateParams{Output: "xml"}, errContains: `--output "xml"`},
		{
			name:   "form fields are not checked locally",
			params: cli.CalculateParams{Region: "Atlantis", Size: "huge"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.ValidateCalculateFlags(&tt.params)
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestIgnoredOverrides(t *testing.T) {
	tests := []struct {
		name   string
		params cli.CalculateParams
		want   []string
	}{
		{name: "none given", params: cli.CalculateParams{}},
		{name: "valid values", params: cli.CalculateParams{CustomKwh: "1200", CustomPricePerKwh: " 0.9 "}},
		{
			name:   "invalid values",
			params: cli.CalculateParams{CustomKwh: "abc", CustomEmissionFactor: "-1", CustomPricePerKwh: "0"},
			want:   []string{"custom-kwh", "custom-emission-factor", "custom-price-per-kwh"},
		},
		{name: "blank is absent", params: cli.CalculateParams{CustomKwh: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.IgnoredOverrides(tt.params))
		})
	}
}

func TestCalculate_TableMonth(t *testing.T) {
	url := setupCLITest(t)

	args := append([]string{"--backend-url", url, "calculate", "--time-frame", "month"}, osloOffice()...)
	stdout, stderr, err := execute(t, args...)
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "833.33")
	assert.Contains(t, stdout, "41.67")
	assert.Contains(t, stdout, "666.67")
	assert.Contains(t, stdout, "kWh/month")
	assert.Contains(t, stdout,
		"energy: Estimated using baseline (10,000 kWh) × multiplier (1) × 1/12 = 833.33 kWh/month")
	assert.Contains(t, stdout, "emissions: CO₂ = 833.33 kWh × 0.05 kg/kWh = 41.67 kg")
	assert.Contains(t, stdout, "Equivalent to driving")

	// One text chart per slot, each with a target and an actual bar.
	assert.Equal(t, 3, strings.Count(stdout, "Your Facility"))
	assert.Equal(t, 3, strings.Count(stdout, "Best Practice Target"))
}

func TestCalculate_JSON(t *testing.T) {
	url := setupCLITest(t)

	args := append([]string{"--backend-url", url, "calculate", "--output", "json"}, osloOffice()...)
	stdout, stderr, err := execute(t, args...)
	require.NoError(t, err, stderr)

	var got struct {
		HasResult bool   `json:"has_result"`
		Frame     string `json:"time_frame"`
		Values    struct {
			Kwh     float64 `json:"kwh"`
			Co2Kg   float64 `json:"co2_kg"`
			CostNok float64 `json:"cost_nok"`
		} `json:"values"`
		Display struct {
			Kwh string `json:"kwh"`
		} `json:"display"`
		Result *api.CalculationResult `json:"result"`
		Charts []string               `json:"charts"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	assert.True(t, got.HasResult)
	assert.Equal(t, "year", got.Frame)
	assert.InDelta(t, 10000.0, got.Values.Kwh, 1e-9)
	assert.InDelta(t, 500.0, got.Values.Co2Kg, 1e-9)
	assert.InDelta(t, 8000.0, got.Values.CostNok, 1e-9)
	assert.Equal(t, "10,000", got.Display.Kwh)
	require.NotNil(t, got.Result)
	assert.Equal(t, "office", got.Result.Metadata.IndustryClass)
	assert.Empty(t, got.Charts, "no chart files without --chart-dir")
}

func TestCalculate_NDJSON(t *testing.T) {
	url := setupCLITest(t)

	args := append([]string{"--backend-url", url, "calculate", "--output", "ndjson", "--time-frame", "month"},
		osloOffice()...)
	stdout, stderr, err := execute(t, args...)
	require.NoError(t, err, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)

	var rows []cli.MetricRow
	for _, line := range lines {
		var row cli.MetricRow
		require.NoError(t, json.Unmarshal([]byte(line), &row))
		rows = append(rows, row)
	}
	assert.Equal(t, []string{"energy", "emissions", "cost"},
		[]string{rows[0].Metric, rows[1].Metric, rows[2].Metric})
	assert.Equal(t, "833.33", rows[0].Display)
	assert.InDelta(t, 10000.0/12, rows[0].Value, 1e-9)
	assert.Equal(t, "month", rows[2].TimeFrame)
	assert.Equal(t, "NOK/month", rows[2].Unit)
}

func TestCalculate_ChartDir(t *testing.T) {
	url := setupCLITest(t)
	dir := filepath.Join(t.TempDir(), "charts")

	args := append([]string{"--backend-url", url, "calculate", "--chart-dir", dir}, osloOffice()...)
	stdout, stderr, err := execute(t, args...)
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "Charts:")
	for _, name := range []string{"benchmark.svg", "co2.svg", "cost.svg"} {
		path := filepath.Join(dir, name)
		assert.Contains(t, stdout, path)
		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Contains(t, string(data), "<svg")
	}
	assert.NotContains(t, stdout, "Your Facility", "SVG output replaces text charts")
}

func TestCalculate_NoBenchmark(t *testing.T) {
	url := setupCLITest(t)
	dir := t.TempDir()

	stdout, stderr, err := execute(t, "--backend-url", url, "calculate", "--chart-dir", dir,
		"--region", "Oslo", "--facility-type", "data_center", "--size", "small", "--usage-pattern", "continuous")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "Metric")
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no benchmark means no chart files")
}

func TestCalculate_IgnoredOverrideWarns(t *testing.T) {
	url := setupCLITest(t)

	args := append([]string{"--backend-url", url, "calculate", "--custom-kwh", "lots"}, osloOffice()...)
	stdout, stderr, err := execute(t, args...)
	require.NoError(t, err)

	assert.Contains(t, stderr, "Warning: ignoring --custom-kwh: not a positive number")
	assert.Contains(t, stdout, "10,000", "service default used")
}

func TestCalculate_Errors(t *testing.T) {
	closed := httptest.NewServer(nil)
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name       string
		backendURL func(stub string) string
		args       []string
		wantKind   api.ErrorKind
		wantStderr []string
	}{
		{
			name:       "validation error lists every field",
			backendURL: func(stub string) string { return stub },
			args:       []string{"--size", "medium"},
			wantKind:   api.KindValidation,
			wantStderr: []string{
				"Validation Errors:",
				"• body.region: field required",
				"• body.facility_type: field required",
				"• body.usage_pattern: field required",
			},
		},
		{
			name:       "detail error",
			backendURL: func(stub string) string { return stub },
			args: []string{"--region", "Atlantis", "--facility-type", "office",
				"--size", "medium", "--usage-pattern", "office_hours"},
			wantKind:   api.KindDetail,
			wantStderr: []string{`Error: region "Atlantis" not found`},
		},
		{
			name:       "unreachable service",
			backendURL: func(string) string { return closedURL },
			args:       osloOffice(),
			wantKind:   api.KindConnection,
			wantStderr: []string{"Could not connect to backend."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := setupCLITest(t)

			args := append([]string{"--backend-url", tt.backendURL(stub), "calculate"}, tt.args...)
			stdout, stderr, err := execute(t, args...)
			require.Error(t, err)

			var reported *cli.ReportedError
			require.True(t, errors.As(err, &reported), "error should be marked as reported")
			assert.Equal(t, tt.wantKind, api.KindOf(err))
			for _, want := range tt.wantStderr {
				assert.Contains(t, stderr, want)
			}
			assert.Empty(t, stdout)
		})
	}
}

func TestCalculate_InvalidFlags(t *testing.T) {
	url := setupCLITest(t)

	_, _, err := execute(t, "--backend-url", url, "calculate", "--time-frame", "week")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--time-frame")

	_, _, err = execute(t, "--backend-url", url, "calculate", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")
}

func TestCalculate_TimeFrameFromEnv(t *testing.T) {
	url := setupCLITest(t)
	t.Setenv("ENVIROIMPACT_TIME_FRAME", "month")

	args := append([]string{"--backend-url", url, "calculate", "--output", "ndjson"}, osloOffice()...)
	stdout, stderr, err := execute(t, args...)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, `"time_frame":"month"`)
}
