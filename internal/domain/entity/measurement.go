package entity

import (
	"fmt"

	"iris_api/internal/domain/value"
)

// Measurement is one flower, all lengths in centimetres.
type Measurement struct {
	SepalLength float64
	SepalWidth  float64
	PetalLength float64
	PetalWidth  float64
}

// Vector returns the measurement in value.FeatureNames order.
func (m Measurement) Vector() []float64 {
	return []float64{m.SepalLength, m.SepalWidth, m.PetalLength, m.PetalWidth}
}

// Validate enforces the accepted range for callers that bypass the HTTP
// validation layer.
func (m Measurement) Validate() error {
	for i, v := range m.Vector() {
		if v != v || v < value.MinMeasurementCm || v > value.MaxMeasurementCm { //nolint:gocritic // NaN check
			return fmt.Errorf("%s: %v is outside [%g, %g]",
				value.FeatureNames()[i], v, value.MinMeasurementCm, value.MaxMeasurementCm)
		}
	}

	return nil
}
