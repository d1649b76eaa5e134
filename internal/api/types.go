// Package api is the client for the facility calculation service.
//
// It owns the wire contract (request/response JSON shapes), and classifies
// every failure once, at the network boundary, into one of the error kinds in
// errors.go. Callers never inspect raw response bodies.
package api

// Facility sizes offered by the form. The service validates the value; the
// list only drives selection inputs.
//
//nolint:gochecknoglobals // Read-only choice lists.
var (
	Sizes         = []string{"small", "medium", "large"}
	UsagePatterns = []string{"office_hours", "extended_hours", "continuous"}
)

// CalculationRequest is the body of POST /calculate.
// Optional numeric overrides are nil unless the user supplied a valid positive number.
type CalculationRequest struct {
	Region               string   `json:"region"`
	FacilityType         string   `json:"facility_type"`
	Size                 string   `json:"size"`
	CustomKwh            *float64 `json:"custom_kwh"`
	UsagePattern         string   `json:"usage_pattern"`
	CustomEmissionFactor *float64 `json:"custom_emission_factor"`
	CustomPricePerKwh    *float64 `json:"custom_price_per_kwh"`
}

// BenchmarkTarget holds best-practice reference values. A nil field means no
// benchmark exists for that metric.
type BenchmarkTarget struct {
	TargetKwh  *float64 `json:"target_kwh"`
	TargetCo2  *float64 `json:"target_co2"`
	TargetCost *float64 `json:"target_cost"`
}

// CalculationMetadata explains how the service derived a result.
type CalculationMetadata struct {
	EstimatedBaselineKwh *float64        `json:"estimated_baseline_kwh,omitempty"`
	SizeMultiplier       *float64        `json:"size_multiplier,omitempty"`
	EmissionFactorUsed   float64         `json:"emission_factor_used"`
	RawPrice             float64         `json:"raw_price"`
	GridFeeAdded         float64         `json:"grid_fee_added"`
	IsVatExempt          bool            `json:"is_vat_exempt"`
	FinalPrice           float64         `json:"final_price"`
	IndustryClass        string          `json:"industry_class"`
	IndustryModifier     float64         `json:"industry_modifier"`
	BestPracticeTarget   BenchmarkTarget `json:"best_practice_target"`
}

// CalculationResult is a successful POST /calculate response. Treat it as
// immutable once received.
type CalculationResult struct {
	EstimatedKwh     float64             `json:"estimated_kwh"`
	EstimatedCo2Kg   float64             `json:"estimated_co2_kg"`
	EstimatedCostNok float64             `json:"estimated_cost_nok"`
	Metadata         CalculationMetadata `json:"metadata"`
}

// HasBaselineBreakdown reports whether the usage estimate came from the
// baseline × size multiplier path rather than a custom kWh override.
func (m CalculationMetadata) HasBaselineBreakdown() bool {
	return m.EstimatedBaselineKwh != nil && m.SizeMultiplier != nil
}

type regionsResponse struct {
	Regions *[]string `json:"regions"`
}

type facilityTypesResponse struct {
	FacilityTypes *[]string `json:"facility_types"`
}
