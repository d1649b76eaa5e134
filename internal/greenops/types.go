// Package greenops turns facility figures into display text: locale-aware
// number formatting for result values and tooltips, and relatable CO2
// equivalencies ("miles driven", "smartphones charged") from EPA factors.
package greenops

import "fmt"

// EquivalencyType is a category of CO2 equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven is miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota
	// EquivalencySmartphonesCharged is full smartphone charges.
	EquivalencySmartphonesCharged
)

func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", int(e))
	}
}

// CarbonInput is an emission amount with its unit (g, kg, t, lb, optionally
// suffixed CO2e).
type CarbonInput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// EquivalencyResult is one computed equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput is the full set of equivalencies for one footprint.
type EquivalencyOutput struct {
	InputKg float64             `json:"input_kg"`
	Results []EquivalencyResult `json:"results"`

	// DisplayText is the prose line shown under the CO2 result, e.g.
	// "Equivalent to driving ~2,604 miles or charging ~60,827 smartphones".
	DisplayText string `json:"display_text"`

	// CompactText fits a table cell, e.g. "(≈ 2,604 mi, 60,827 phones)".
	CompactText string `json:"compact_text"`

	// IsEmpty is true when the footprint was too small to compare.
	IsEmpty bool `json:"is_empty"`
}
