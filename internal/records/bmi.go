package records

import (
	"fmt"

	"github.com/linnemanlabs/go-core/xerrors"
)

// ErrBadMeasurement is returned for non-positive weight or height.
var ErrBadMeasurement = xerrors.New("invalid measurement")

// BMI computes body mass index from weight in kilograms and height in
// centimeters, and classifies it.
func BMI(weightKg, heightCm float64) (value float64, category string, err error) {
	if weightKg <= 0 {
		return 0, "", fmt.Errorf("%w: weight must be positive", ErrBadMeasurement)
	}
	if heightCm <= 0 {
		return 0, "", fmt.Errorf("%w: height must be positive", ErrBadMeasurement)
	}

	h := heightCm / 100
	value = weightKg / (h * h)

	switch {
	case value < 18.5:
		category = "Underweight"
	case value < 25:
		category = "Normal weight"
	case value < 30:
		category = "Overweight"
	default:
		category = "Obesity"
	}
	return value, category, nil
}
