package api

import (
	"encoding/json"
	"fmt"
)

type benchmarkWire struct {
	TargetKwh  *float64 `json:"target_kwh"`
	TargetCo2  *float64 `json:"target_co2"`
	TargetCost *float64 `json:"target_cost"`
}

type metadataWire struct {
	EstimatedBaselineKwh *float64       `json:"estimated_baseline_kwh"`
	SizeMultiplier       *float64       `json:"size_multiplier"`
	EmissionFactorUsed   *float64       `json:"emission_factor_used"`
	RawPrice             *float64       `json:"raw_price"`
	GridFeeAdded         *float64       `json:"grid_fee_added"`
	IsVatExempt          *bool          `json:"is_vat_exempt"`
	FinalPrice           *float64       `json:"final_price"`
	IndustryClass        *string        `json:"industry_class"`
	IndustryModifier     *float64       `json:"industry_modifier"`
	BestPracticeTarget   *benchmarkWire `json:"best_practice_target"`
}

type resultWire struct {
	EstimatedKwh     *float64      `json:"estimated_kwh"`
	EstimatedCo2Kg   *float64      `json:"estimated_co2_kg"`
	EstimatedCostNok *float64      `json:"estimated_cost_nok"`
	Metadata         *metadataWire `json:"metadata"`
}

// decodeResult parses a success body. Unparsable JSON is a transport
// failure; parsable JSON missing required fields is ErrMalformedResult.
func decodeResult(body []byte) (*CalculationResult, error) {
	var w resultWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, &ConnectionError{Op: "calculate", Err: fmt.Errorf("decoding response: %w", err)}
	}

	var missing []string
	need := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	need("estimated_kwh", w.EstimatedKwh != nil)
	need("estimated_co2_kg", w.EstimatedCo2Kg != nil)
	need("estimated_cost_nok", w.EstimatedCostNok != nil)
	need("metadata", w.Metadata != nil)
	if w.Metadata != nil {
		m := w.Metadata
		need("metadata.emission_factor_used", m.EmissionFactorUsed != nil)
		need("metadata.raw_price", m.RawPrice != nil)
		need("metadata.grid_fee_added", m.GridFeeAdded != nil)
		need("metadata.is_vat_exempt", m.IsVatExempt != nil)
		need("metadata.final_price", m.FinalPrice != nil)
		need("metadata.industry_class", m.IndustryClass != nil)
		need("metadata.industry_modifier", m.IndustryModifier != nil)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %v", ErrMalformedResult, missing)
	}

	m := w.Metadata
	result := &CalculationResult{
		EstimatedKwh:     *w.EstimatedKwh,
		EstimatedCo2Kg:   *w.EstimatedCo2Kg,
		EstimatedCostNok: *w.EstimatedCostNok,
		Metadata: CalculationMetadata{
			EstimatedBaselineKwh: m.EstimatedBaselineKwh,
			SizeMultiplier:       m.SizeMultiplier,
			EmissionFactorUsed:   *m.EmissionFactorUsed,
			RawPrice:             *m.RawPrice,
			GridFeeAdded:         *m.GridFeeAdded,
			IsVatExempt:          *m.IsVatExempt,
			FinalPrice:           *m.FinalPrice,
			IndustryClass:        *m.IndustryClass,
			IndustryModifier:     *m.IndustryModifier,
		},
	}
	// A missing target object means no benchmarks at all.
	if m.BestPracticeTarget != nil {
		result.Metadata.BestPracticeTarget = BenchmarkTarget(*m.BestPracticeTarget)
	}
	return result, nil
}
