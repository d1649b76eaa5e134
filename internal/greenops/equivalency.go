package greenops

import (
	"fmt"
	"math"
)

// Calculate computes equivalencies with the English formatter.
func Calculate(input CarbonInput) (EquivalencyOutput, error) {
	return defaultFormatter.Equivalency(input)
}

// Equivalency normalizes input to kilograms and expresses it as miles driven
// and smartphones charged. Footprints under MinEquivalencyThresholdKg give an
// empty output and no error.
func (f *Formatter) Equivalency(input CarbonInput) (EquivalencyOutput, error) {
	kg, err := NormalizeToKg(input.Value, input.Unit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	if math.IsInf(miles, 0) || math.IsInf(phones, 0) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}

	milesText := f.equivalencyValue(miles)
	phonesText := f.equivalencyValue(phones)

	return EquivalencyOutput{
		InputKg: kg,
		Results: []EquivalencyResult{
			{Type: EquivalencyMilesDriven, Value: miles, FormattedValue: milesText, Label: "miles driven"},
			{Type: EquivalencySmartphonesCharged, Value: phones, FormattedValue: phonesText, Label: "smartphones charged"},
		},
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones", milesText, phonesText),
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", milesText, phonesText),
	}, nil
}

func (f *Formatter) equivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return f.Number(int64(math.Round(v)))
}
