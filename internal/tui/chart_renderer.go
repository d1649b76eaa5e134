package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/enviroimpact/internal/engine/chart"
)

const (
	defaultBarWidth = 30
	barLabelWidth   = 22
)

// TextRenderer draws chart slots as horizontal lipgloss bars and keeps the
// live panels for the view. It implements chart.Renderer.
type TextRenderer struct {
	mu       sync.Mutex
	barWidth int
	styled   bool
	panels   map[chart.Slot]*TextPanel
}

// NewTextRenderer returns a renderer with bars up to barWidth cells wide.
// Unstyled output draws the same bars without colour.
func NewTextRenderer(barWidth int, styled bool) *TextRenderer {
	if barWidth <= 0 {
		barWidth = defaultBarWidth
	}
	return &TextRenderer{
		barWidth: barWidth,
		styled:   styled,
		panels:   make(map[chart.Slot]*TextPanel),
	}
}

// TextPanel is one drawn slot.
type TextPanel struct {
	owner *TextRenderer
	slot  chart.Slot
	text  string
}

// String returns the drawn panel.
func (p *TextPanel) String() string { return p.text }

// Dispose removes the panel from its renderer.
func (p *TextPanel) Dispose() error {
	p.owner.mu.Lock()
	defer p.owner.mu.Unlock()
	if p.owner.panels[p.slot] == p {
		delete(p.owner.panels, p.slot)
	}
	return nil
}

// Create draws spec and registers the panel.
func (r *TextRenderer) Create(_ context.Context, spec chart.Spec) (chart.Handle, error) {
	panel := &TextPanel{owner: r, slot: spec.Slot, text: r.draw(spec)}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.panels[spec.Slot]; exists {
		return nil, fmt.Errorf("slot %s already has a live panel", spec.Slot)
	}
	r.panels[spec.Slot] = panel
	return panel, nil
}

// Panels returns the live panels in slot order.
func (r *TextRenderer) Panels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range chart.Slots() {
		if p, ok := r.panels[s]; ok {
			out = append(out, p.text)
		}
	}
	return out
}

func (r *TextRenderer) draw(spec chart.Spec) string {
	var sb strings.Builder
	sb.WriteString(r.style(HeaderStyle).Render(spec.Title))
	sb.WriteString("\n")

	top := spec.Max()
	for _, b := range spec.Bars {
		n := r.barCells(b.Value, top)
		color := ColorActual
		if b.Label == chart.LabelTarget {
			color = ColorTarget
		}
		bar := r.style(lipgloss.NewStyle().Foreground(color)).Render(strings.Repeat(IconBar, n))
		pad := strings.Repeat(" ", r.barWidth-n)

		fmt.Fprintf(&sb, "%-*s %s%s %s\n", barLabelWidth, b.Label, bar, pad, b.Text)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// barCells scales v against top into [0, barWidth]. Any positive value gets
// at least one cell; zero, negative and non-finite values get none.
func (r *TextRenderer) barCells(v, top float64) int {
	if top <= 0 || v <= 0 || math.IsNaN(v) || math.IsInf(top, 0) {
		return 0
	}
	ratio := v / top
	if math.IsInf(ratio, 0) || ratio >= 1 {
		return r.barWidth
	}
	return max(1, min(r.barWidth, int(ratio*float64(r.barWidth))))
}

func (r *TextRenderer) style(s lipgloss.Style) lipgloss.Style {
	if r.styled {
		return s
	}
	return lipgloss.NewStyle()
}
