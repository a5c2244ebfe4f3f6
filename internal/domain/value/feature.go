package value

const (
	FeatureCount = 4

	// MinMeasurementCm and MaxMeasurementCm bound every accepted measurement.
	MinMeasurementCm = 0.0
	MaxMeasurementCm = 10.0
)

// FeatureNames lists the model inputs in column order.
func FeatureNames() []string {
	return []string{"sepal_length", "sepal_width", "petal_length", "petal_width"}
}
