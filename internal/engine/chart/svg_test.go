package chart_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/enviroimpact/internal/engine/chart"
)

func TestSVGRenderer_CreateAndDispose(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	r, err := chart.NewSVGRenderer(dir, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, dir, r.Dir())

	reg := chart.NewRegistry(r, nil)
	ctx := context.Background()
	require.NoError(t, reg.RenderResult(ctx, fullResult()))

	for _, slot := range chart.Slots() {
		path := filepath.Join(dir, string(slot)+".svg")
		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr, slot)
		assert.Contains(t, string(data), "<svg")
	}

	res := fullResult()
	res.Metadata.BestPracticeTarget.TargetCo2 = nil
	require.NoError(t, reg.RenderResult(ctx, res))
	assert.NoFileExists(t, filepath.Join(dir, "co2.svg"))
	assert.FileExists(t, filepath.Join(dir, "cost.svg"))

	require.NoError(t, reg.Close())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSVGRenderer_ZeroValues(t *testing.T) {
	r, err := chart.NewSVGRenderer(t.TempDir(), 640, 400)
	require.NoError(t, err)

	zero := 0.0
	h, err := r.Create(context.Background(), chart.NewSpec(chart.SlotCost, zero, zero, nil))
	require.NoError(t, err)

	fh, ok := h.(*chart.FileHandle)
	require.True(t, ok)
	assert.FileExists(t, fh.Path())
	require.NoError(t, h.Dispose())
	require.NoError(t, h.Dispose())
}
