package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToKg(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		unit    string
		want    float64
		wantErr error
	}{
		{"grams", 1500, "g", 1.5, nil},
		{"kilograms mixed case", 2, "KgCO2e", 2, nil},
		{"tons", 0.5, "t", 500, nil},
		{"pounds", 10, "lb", 4.53592, nil},
		{"zero", 0, "kg", 0, nil},
		{"negative", -1, "kg", 0, ErrNegativeValue},
		{"nan", math.NaN(), "kg", 0, ErrCalculationOverflow},
		{"overflow", math.MaxFloat64, "t", 0, ErrCalculationOverflow},
		{"unknown", 1, "oz", 0, ErrInvalidUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeToKg(tt.value, tt.unit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestIsRecognizedUnit(t *testing.T) {
	assert.True(t, IsRecognizedUnit("TCO2E"))
	assert.False(t, IsRecognizedUnit(""))
}
