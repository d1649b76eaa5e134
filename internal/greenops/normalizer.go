package greenops

import (
	"math"
	"strings"
)

//nolint:gochecknoglobals // Static unit table.
var unitFactors = map[string]float64{
	"g":      GramsToKg,
	"gco2e":  GramsToKg,
	"kg":     KgToKg,
	"kgco2e": KgToKg,
	"t":      TonsToKg,
	"tco2e":  TonsToKg,
	"lb":     PoundsToKg,
	"lbco2e": PoundsToKg,
}

// NormalizeToKg converts value in unit to kilograms. Units match
// case-insensitively. Negative, non-finite and overflowing values are rejected.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := unitFactors[strings.ToLower(unit)]
	if !ok {
		return 0, ErrInvalidUnit
	}

	kg := value * factor
	if math.IsInf(kg, 0) {
		return 0, ErrCalculationOverflow
	}
	return kg, nil
}

// IsRecognizedUnit reports whether unit is accepted by NormalizeToKg.
func IsRecognizedUnit(unit string) bool {
	_, ok := unitFactors[strings.ToLower(unit)]
	return ok
}
