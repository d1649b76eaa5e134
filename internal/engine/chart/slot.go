// Package chart manages the three benchmark visualizations of a result.
//
// A Registry owns at most one live Handle per Slot. Every render disposes the
// slot's previous handle before creating a new one, so repeated submissions
// never leave stale or duplicate charts behind. Drawing itself is delegated to
// a Renderer (SVG files for the CLI, text bars for the TUI).
package chart

// Slot names one chart panel.
type Slot string

// The three chart panels.
const (
	SlotBenchmark Slot = "benchmark"
	SlotCO2       Slot = "co2"
	SlotCost      Slot = "cost"
)

// Bar labels, in display order.
const (
	LabelTarget = "Best Practice Target"
	LabelActual = "Your Facility"
)

// Slots returns every slot in display order.
func Slots() []Slot {
	return []Slot{SlotBenchmark, SlotCO2, SlotCost}
}

// Unit is the measurement unit shown on the slot's bars.
func (s Slot) Unit() string {
	switch s {
	case SlotBenchmark:
		return "kWh"
	case SlotCO2:
		return "kg"
	case SlotCost:
		return "NOK"
	default:
		return ""
	}
}

// Title is the panel heading.
func (s Slot) Title() string {
	switch s {
	case SlotBenchmark:
		return "Energy Usage vs Best Practice (kWh)"
	case SlotCO2:
		return "CO₂ Emissions vs Best Practice (kg)"
	case SlotCost:
		return "Cost vs Best Practice (NOK)"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known slots.
func (s Slot) Valid() bool {
	return s == SlotBenchmark || s == SlotCO2 || s == SlotCost
}
