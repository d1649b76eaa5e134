package engine

import (
	"fmt"
	"strings"
)

const monthsPerYear = 12

// TimeFrame is the period display values are expressed in. Results from the
// service are annual.
type TimeFrame int

const (
	// Year shows annual values unchanged.
	Year TimeFrame = iota
	// Month shows annual values divided by twelve.
	Month
)

// ParseTimeFrame accepts "year" or "month" in any case.
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year":
		return Year, nil
	case "month":
		return Month, nil
	default:
		return Year, fmt.Errorf("%w: %q (want year or month)", ErrInvalidTimeFrame, s)
	}
}

// String returns "year" or "month".
func (tf TimeFrame) String() string {
	if tf == Month {
		return "month"
	}
	return "year"
}

// Scale converts an annual value to this frame.
func (tf TimeFrame) Scale(annual float64) float64 {
	if tf == Month {
		return annual / monthsPerYear
	}
	return annual
}

// FactorLabel is the factor as shown in tooltips: "1" or "1/12".
func (tf TimeFrame) FactorLabel() string {
	if tf == Month {
		return "1/12"
	}
	return "1"
}

// Toggle returns the other frame.
func (tf TimeFrame) Toggle() TimeFrame {
	if tf == Month {
		return Year
	}
	return Month
}
