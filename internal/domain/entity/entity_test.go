package entity_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"iris_api/internal/domain/entity"
	"iris_api/internal/domain/value"
)

func TestMeasurementValidate(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		measurement entity.Measurement
		errContains string
	}{
		{name: "Setosa", measurement: entity.Measurement{SepalLength: 5.1, SepalWidth: 3.5, PetalLength: 1.4, PetalWidth: 0.2}},
		{name: "Bounds", measurement: entity.Measurement{SepalLength: 0, SepalWidth: 10, PetalLength: 0, PetalWidth: 10}},
		{name: "Negative", measurement: entity.Measurement{SepalLength: -1}, errContains: "sepal_length"},
		{name: "Too large", measurement: entity.Measurement{PetalWidth: 10.5}, errContains: "petal_width"},
		{name: "NaN", measurement: entity.Measurement{PetalLength: math.NaN()}, errContains: "petal_length"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			err := tc.measurement.Validate()
			if tc.errContains == "" {
				rq.NoError(err)

				return
			}

			rq.ErrorContains(err, tc.errContains)
		})
	}
}

func TestPredictionProbabilityByName(t *testing.T) {
	p := entity.Prediction{
		Species:       value.Versicolor,
		Confidence:    0.7,
		Probabilities: [value.SpeciesCount]float64{0.1, 0.7, 0.2},
	}

	require.Equal(t, map[string]float64{
		"setosa":     0.1,
		"versicolor": 0.7,
		"virginica":  0.2,
	}, p.ProbabilityByName())
}

func TestDataset(t *testing.T) {
	rq := require.New(t)

	d := entity.Dataset{Samples: []entity.Sample{
		{Features: [4]float64{1, 2, 3, 4}, Label: value.Setosa},
		{Features: [4]float64{5, 6, 7, 8}, Label: value.Virginica},
		{Features: [4]float64{9, 9, 9, 9}, Label: value.Virginica},
	}}

	x, y := d.Matrix()
	rq.Equal([][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 9, 9, 9}}, x)
	rq.Equal([]int{0, 2, 2}, y)

	rq.Equal([value.SpeciesCount]int{1, 0, 2}, d.CountByLabel())
	rq.Equal(value.Setosa, d.Subset([]int{2, 0}).Samples[1].Label)
}
