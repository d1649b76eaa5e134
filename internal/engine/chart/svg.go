package chart

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default SVG dimensions in pixels.
const (
	DefaultWidth  = 480
	DefaultHeight = 320
)

// headroom keeps the taller bar clear of the title.
const headroom = 1.15

//nolint:gochecknoglobals // Fixed palette.
var (
	targetColor = drawing.ColorFromHex("4caf50")
	actualColor = drawing.ColorFromHex("2196f3")
)

// SVGRenderer writes each slot to <dir>/<slot>.svg using go-chart.
type SVGRenderer struct {
	dir    string
	width  int
	height int
}

// NewSVGRenderer creates dir if needed. Non-positive sizes use the defaults.
func NewSVGRenderer(dir string, width, height int) (*SVGRenderer, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}
	return &SVGRenderer{dir: dir, width: width, height: height}, nil
}

// Dir returns the output directory.
func (r *SVGRenderer) Dir() string { return r.dir }

// Create renders spec and writes it atomically.
func (r *SVGRenderer) Create(_ context.Context, spec Spec) (Handle, error) {
	bc := r.barChart(spec)

	path := filepath.Join(r.dir, string(spec.Slot)+".svg")
	tmp, err := os.CreateTemp(r.dir, "."+string(spec.Slot)+"-*.svg")
	if err != nil {
		return nil, fmt.Errorf("creating chart file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Gone after a successful rename.

	if err = bc.Render(gochart.SVG, tmp); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("rendering %s chart: %w", spec.Slot, err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("writing chart file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("writing chart file: %w", err)
	}
	return &FileHandle{path: path}, nil
}

func (r *SVGRenderer) barChart(spec Spec) gochart.BarChart {
	top := spec.Max() * headroom
	if top <= 0 {
		top = 1
	}

	bars := make([]gochart.Value, len(spec.Bars))
	for i, b := range spec.Bars {
		fill := actualColor
		if b.Label == LabelTarget {
			fill = targetColor
		}
		bars[i] = gochart.Value{
			Label: b.Label + ": " + b.Text,
			Value: b.Value,
			Style: gochart.Style{FillColor: fill, StrokeColor: fill},
		}
	}

	return gochart.BarChart{
		Title:      spec.Title,
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Name:  spec.Unit,
			Range: &gochart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
}

// FileHandle is a chart written to disk.
type FileHandle struct {
	path string
}

// Path returns the SVG file location.
func (h *FileHandle) Path() string { return h.path }

// Dispose deletes the file. A missing file is not an error.
func (h *FileHandle) Dispose() error {
	if err := os.Remove(h.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", h.path, err)
	}
	return nil
}
