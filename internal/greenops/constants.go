package greenops

// EPA greenhouse gas equivalency factors (2024 edition), in kg CO2e per unit
// of activity. equivalency = kg_CO2e / factor.
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
const (
	// EPAMilesDrivenFactor is kg CO2e per mile for an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per full smartphone charge.
	EPASmartphoneChargeFactor = 0.00822
)

// Conversion factors to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonsToKg   = 1000.0
	PoundsToKg = 0.453592
)

const (
	// MinEquivalencyThresholdKg is the smallest footprint that gets an
	// equivalency line; below it the comparisons round to nothing.
	MinEquivalencyThresholdKg = 1.0

	// LargeNumberThreshold switches to "~X.X million" display.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches to "~X.X billion" display.
	BillionThreshold = 1_000_000_000
)
