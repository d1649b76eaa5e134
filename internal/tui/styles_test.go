package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/engine"
)

func TestOutputMode_String(t *testing.T) {
	assert.Equal(t, "plain", OutputModePlain.String())
	assert.Equal(t, "styled", OutputModeStyled.String())
	assert.Equal(t, "interactive", OutputModeInteractive.String())
}

func TestDetectOutputMode_ForcedPlain(t *testing.T) {
	assert.Equal(t, OutputModePlain, DetectOutputMode(true, false, true))
	assert.Equal(t, OutputModePlain, DetectOutputMode(false, true, true))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, OutputModePlain, DetectOutputMode(false, false, true))
}

func TestTerminalWidth_Fallback(t *testing.T) {
	assert.Positive(t, TerminalWidth())
}

func TestLoadingState_View(t *testing.T) {
	l := NewLoadingState("Calculating...")
	assert.Contains(t, l.View(), "Calculating...")
	l.SetMessage("Loading...")
	assert.Contains(t, l.View(), "Loading...")
	assert.NotNil(t, l.Init())
}

func TestRenderResults(t *testing.T) {
	assert.Contains(t, RenderResults(engine.Snapshot{}), "No calculation yet")

	snap := engine.Snapshot{
		HasResult: true,
		Frame:     "month",
		Display:   engine.DisplayValues{Kwh: "833.33", Co2Kg: "41.67", CostNok: "666.67"},
		Tooltips:  engine.Tooltips{Usage: "usage tip", Emissions: "co2 tip", Cost: "cost tip"},
	}
	out := RenderResults(snap)
	for _, want := range []string{"833.33", "kWh/month", "41.67", "666.67", "usage tip", "cost tip"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderErrorBanner(t *testing.T) {
	out := RenderErrorBanner(&api.DetailError{Detail: "facility not found"})
	assert.Contains(t, out, "Error: facility not found")

	out = RenderErrorBanner(&api.ConnectionError{Op: "calculate", Err: errors.New("refused")})
	assert.Contains(t, out, "Could not connect to backend.")
}

func TestRenderCalculatorHelp(t *testing.T) {
	assert.Contains(t, RenderCalculatorHelp(false, true), "s: calculate")
	assert.Contains(t, RenderCalculatorHelp(false, false), "calculating")
	assert.Contains(t, RenderCalculatorHelp(true, true), "enter/esc")
}
