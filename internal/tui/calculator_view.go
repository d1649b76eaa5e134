package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/engine"
)

const (
	formLabelWidth = 26
	resultLabel    = 12
)

// View renders the calculator.
func (m *CalculatorModel) View() string {
	if m.state == CalculatorStateQuitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(BoxStyle.Render(HeaderStyle.Render("Facility Energy Impact Calculator")))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderForm())
	sb.WriteString("\n")

	if m.state == CalculatorStateSubmitting {
		sb.WriteString(m.loading.View())
		sb.WriteString("\n\n")
	}
	if m.err != nil {
		sb.WriteString(RenderErrorBanner(m.err))
		sb.WriteString("\n\n")
	}

	sb.WriteString(RenderResults(m.snapshot))
	if m.panels != nil {
		if panels := m.panels.Panels(); len(panels) > 0 {
			sb.WriteString("\n\n")
			sb.WriteString(strings.Join(panels, "\n\n"))
		}
	}
	sb.WriteString("\n\n")
	sb.WriteString(RenderCalculatorHelp(m.editing, m.submitEnabled))
	return sb.String()
}

func (m *CalculatorModel) renderForm() string {
	var sb strings.Builder
	mode := "Simple"
	if m.showAdvanced {
		mode = "Advanced"
	}
	sb.WriteString(LabelStyle.Render("Mode: "))
	sb.WriteString(ValueStyle.Render(mode))
	sb.WriteString(LabelStyle.Render("   Time frame: "))
	sb.WriteString(ValueStyle.Render(m.session.Presenter.TimeFrame().String()))
	sb.WriteString("\n\n")

	for i, f := range m.visibleFields() {
		focused := i == m.focused
		pointer := "  "
		label := LabelStyle.Render(padRight(f.label, formLabelWidth))
		if focused {
			pointer = FocusStyle.Render(IconPointer) + " "
			label = FocusStyle.Render(padRight(f.label, formLabelWidth))
		}
		sb.WriteString(pointer)
		sb.WriteString(label)
		sb.WriteString(m.renderFieldValue(f, focused))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *CalculatorModel) renderFieldValue(f *formField, focused bool) string {
	if f.kind == fieldNumber {
		if m.editing && focused {
			return f.input.View()
		}
		if v := f.input.Value(); v != "" {
			return ValueStyle.Render(v)
		}
		return SubtleStyle.Render("optional")
	}

	if f.loading {
		return SubtleStyle.Render("Loading...")
	}
	if len(f.options) == 0 {
		return ""
	}
	opt := f.options[f.selected]
	switch {
	case opt.Disabled:
		return WarningStyle.Render(IconDisabled + " " + opt.Label)
	case opt.Value == "":
		return SubtleStyle.Render("‹ " + opt.Label + " ›")
	default:
		return ValueStyle.Render("‹ " + opt.Label + " ›")
	}
}

// RenderResults renders the three result values with their tooltips.
func RenderResults(snap engine.Snapshot) string {
	if !snap.HasResult {
		return InfoStyle.Render("No calculation yet. Fill in the form and press s.")
	}

	var sb strings.Builder
	per := "/" + snap.Frame
	rows := []struct {
		label, value, unit, tooltip string
	}{
		{"Energy", snap.Display.Kwh, "kWh" + per, snap.Tooltips.Usage},
		{"Emissions", snap.Display.Co2Kg, "kg CO₂" + per, snap.Tooltips.Emissions},
		{"Cost", snap.Display.CostNok, "NOK" + per, snap.Tooltips.Cost},
	}
	for _, r := range rows {
		sb.WriteString(LabelStyle.Render(padRight(r.label, resultLabel)))
		sb.WriteString(ValueStyle.Render(r.value))
		sb.WriteString(" ")
		sb.WriteString(LabelStyle.Render(r.unit))
		sb.WriteString("\n")
		sb.WriteString(InfoStyle.Render("  " + IconInfo + " " + r.tooltip))
		sb.WriteString("\n")
	}
	if snap.Equivalency != "" {
		sb.WriteString(SubtleStyle.Render(snap.Equivalency))
		sb.WriteString("\n")
	}
	return BoxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderErrorBanner renders err as the user sees it.
func RenderErrorBanner(err error) string {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorError).
		Padding(0, 1).
		Render(CriticalStyle.Render(api.UserMessage(err)))
}

// RenderCalculatorHelp renders the key bindings line.
func RenderCalculatorHelp(editing, submitEnabled bool) string {
	if editing {
		return SubtleStyle.Render("type a number • enter/esc: done")
	}
	submit := "s: calculate"
	if !submitEnabled {
		submit = "s: calculating..."
	}
	return SubtleStyle.Render("↑/↓: field • ←/→: choose • enter: edit • " + submit +
		" • t: year/month • a: advanced • q: quit")
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
