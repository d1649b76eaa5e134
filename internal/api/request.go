package api

import (
	"math"
	"strconv"
	"strings"
)

// ParseOptionalPositive converts raw form input to an optional override.
// Empty, unparsable, non-finite, zero and negative input all yield nil, so an
// invalid entry is never sent as 0 or NaN.
func ParseOptionalPositive(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil
	}
	return &v
}

// FormValues is the raw, untyped content of the facility form.
type FormValues struct {
	Region               string
	FacilityType         string
	Size                 string
	CustomKwh            string
	UsagePattern         string
	CustomEmissionFactor string
	CustomPricePerKwh    string
}

// NewCalculationRequest normalizes form values into a request.
func NewCalculationRequest(v FormValues) CalculationRequest {
	return CalculationRequest{
		Region:               strings.TrimSpace(v.Region),
		FacilityType:         strings.TrimSpace(v.FacilityType),
		Size:                 strings.TrimSpace(v.Size),
		CustomKwh:            ParseOptionalPositive(v.CustomKwh),
		UsagePattern:         strings.TrimSpace(v.UsagePattern),
		CustomEmissionFactor: ParseOptionalPositive(v.CustomEmissionFactor),
		CustomPricePerKwh:    ParseOptionalPositive(v.CustomPricePerKwh),
	}
}
