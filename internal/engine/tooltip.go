package engine

import (
	"fmt"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/greenops"
)

// Tooltips are the explanations shown beside each result value.
type Tooltips struct {
	Usage     string `json:"usage"`
	Emissions string `json:"emissions"`
	Cost      string `json:"cost"`
}

// vatPercent is the Norwegian VAT rate applied by the service when a region
// is not exempt.
const vatPercent = 25

// BuildTooltips derives all three tooltip lines for res at frame. Quantities
// use f's locale formatting; metadata factors print in shortest form.
func BuildTooltips(f *greenops.Formatter, res *api.CalculationResult, frame TimeFrame) Tooltips {
	if res == nil {
		return Tooltips{}
	}
	return Tooltips{
		Usage:     usageTooltip(f, res, frame),
		Emissions: emissionsTooltip(f, res, frame),
		Cost:      costTooltip(res, frame),
	}
}

func usageTooltip(f *greenops.Formatter, res *api.CalculationResult, frame TimeFrame) string {
	kwh := f.Display(frame.Scale(res.EstimatedKwh))
	m := res.Metadata

	if m.HasBaselineBreakdown() {
		scale := ""
		if frame == Month {
			scale = " × " + frame.FactorLabel()
		}
		return fmt.Sprintf("Estimated using baseline (%s kWh) × multiplier (%s)%s = %s kWh/%s",
			f.Display(*m.EstimatedBaselineKwh), greenops.FormatFactor(*m.SizeMultiplier), scale, kwh, frame)
	}
	return fmt.Sprintf("Custom usage provided: %s kWh/%s, scaled by %s", kwh, frame, frame.FactorLabel())
}

func emissionsTooltip(f *greenops.Formatter, res *api.CalculationResult, frame TimeFrame) string {
	return fmt.Sprintf("CO₂ = %s kWh × %s kg/kWh = %s kg",
		f.Display(frame.Scale(res.EstimatedKwh)),
		greenops.FormatFactor(res.Metadata.EmissionFactorUsed),
		f.Display(frame.Scale(res.EstimatedCo2Kg)))
}

func costTooltip(res *api.CalculationResult, frame TimeFrame) string {
	m := res.Metadata
	vat := fmt.Sprintf("+ %d%% VAT", vatPercent)
	if m.IsVatExempt {
		vat = "(VAT exempt)"
	}
	return fmt.Sprintf("Base price: %s + grid fee: %s %s = final: %s NOK/kWh, adjusted for %s (×%s), scaled by %s",
		greenops.FormatFactor(m.RawPrice),
		greenops.FormatFactor(m.GridFeeAdded),
		vat,
		greenops.FormatFactor(m.FinalPrice),
		m.IndustryClass,
		greenops.FormatFactor(m.IndustryModifier),
		frame.FactorLabel())
}
