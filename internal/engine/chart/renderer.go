package chart

import (
	"context"

	"github.com/rshade/enviroimpact/internal/greenops"
)

// Bar is one labelled value.
type Bar struct {
	Label string
	Value float64
	// Text is Value formatted with its unit, e.g. "10,000 kWh".
	Text string
}

// Spec is everything a Renderer needs to draw one slot.
type Spec struct {
	Slot  Slot
	Title string
	Unit  string
	Bars  []Bar
}

// Max returns the largest bar value, or 0 with no bars.
func (s Spec) Max() float64 {
	var m float64
	for _, b := range s.Bars {
		if b.Value > m {
			m = b.Value
		}
	}
	return m
}

// NewSpec builds the two-bar comparison for slot: target first, then actual.
func NewSpec(slot Slot, target, actual float64, f *greenops.Formatter) Spec {
	if f == nil {
		f = greenops.DefaultFormatter()
	}
	unit := slot.Unit()
	bar := func(label string, v float64) Bar {
		return Bar{Label: label, Value: v, Text: f.Display(v) + " " + unit}
	}
	return Spec{
		Slot:  slot,
		Title: slot.Title(),
		Unit:  unit,
		Bars:  []Bar{bar(LabelTarget, target), bar(LabelActual, actual)},
	}
}

// Handle is a live visualization. Dispose releases it; calling Dispose on an
// already disposed handle is allowed.
type Handle interface {
	Dispose() error
}

// Renderer creates visualizations.
type Renderer interface {
	Create(ctx context.Context, spec Spec) (Handle, error)
}
