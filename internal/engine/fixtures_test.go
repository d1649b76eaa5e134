package engine

import "github.com/rshade/enviroimpact/internal/api"

func f64(v float64) *float64 { return &v }

// osloOfficeResult is the service's answer for Oslo, office, medium, office
// hours.
func osloOfficeResult() *api.CalculationResult {
	return &api.CalculationResult{
		EstimatedKwh:     10000,
		EstimatedCo2Kg:   500,
		EstimatedCostNok: 8000,
		Metadata: api.CalculationMetadata{
			EstimatedBaselineKwh: f64(10000),
			SizeMultiplier:       f64(1),
			EmissionFactorUsed:   0.05,
			RawPrice:             0.54,
			GridFeeAdded:         0.1,
			IsVatExempt:          false,
			FinalPrice:           0.8,
			IndustryClass:        "office",
			IndustryModifier:     1,
			BestPracticeTarget: api.BenchmarkTarget{
				TargetKwh:  f64(8000),
				TargetCo2:  f64(400),
				TargetCost: f64(6400),
			},
		},
	}
}

func customUsageResult() *api.CalculationResult {
	return &api.CalculationResult{
		EstimatedKwh:     2400,
		EstimatedCo2Kg:   48,
		EstimatedCostNok: 960,
		Metadata: api.CalculationMetadata{
			EmissionFactorUsed: 0.02,
			RawPrice:           0.3,
			GridFeeAdded:       0.1,
			IsVatExempt:        true,
			FinalPrice:         0.4,
			IndustryClass:      "education",
			IndustryModifier:   0.9,
		},
	}
}
