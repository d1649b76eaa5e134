package stubbackend

// region maps a selectable region to its Nord Pool price zone.
type region struct {
	Zone       string
	SpotPrice  float64 // NOK/kWh, 12-month average
	VatExempt  bool
	EmissionKg float64 // kg CO2e per kWh
}

// facility holds the annual baseline and benchmark data for a facility type.
type facility struct {
	BaselineKwh      float64
	IndustryClass    string
	IndustryModifier float64
	// HasBenchmark is false for types without published best-practice figures.
	HasBenchmark bool
}

const (
	gridFee            = 0.1
	vatRate            = 0.25
	bestPracticeFactor = 0.8
)

//nolint:gochecknoglobals // Static reference tables.
var (
	regions = map[string]region{
		"Oslo":         {Zone: "NO1", SpotPrice: 0.54, EmissionKg: 0.05},
		"Kristiansand": {Zone: "NO2", SpotPrice: 0.55, EmissionKg: 0.04},
		"Trondheim":    {Zone: "NO3", SpotPrice: 0.35, EmissionKg: 0.03},
		"Tromsø":       {Zone: "NO4", SpotPrice: 0.3, VatExempt: true, EmissionKg: 0.02},
		"Bergen":       {Zone: "NO5", SpotPrice: 0.5, EmissionKg: 0.04},
	}

	facilities = map[string]facility{
		"office":      {BaselineKwh: 10000, IndustryClass: "office", IndustryModifier: 1.0, HasBenchmark: true},
		"warehouse":   {BaselineKwh: 14000, IndustryClass: "logistics", IndustryModifier: 0.95, HasBenchmark: true},
		"retail":      {BaselineKwh: 12000, IndustryClass: "commerce", IndustryModifier: 1.05, HasBenchmark: true},
		"school":      {BaselineKwh: 11000, IndustryClass: "education", IndustryModifier: 0.9, HasBenchmark: true},
		"data_center": {BaselineKwh: 250000, IndustryClass: "ict", IndustryModifier: 0.85},
	}

	sizeMultipliers = map[string]float64{
		"small":  0.5,
		"medium": 1.0,
		"large":  2.0,
	}

	usageModifiers = map[string]float64{
		"office_hours":   1.0,
		"extended_hours": 1.25,
		"continuous":     1.6,
	}
)
