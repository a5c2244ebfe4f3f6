package server

import (
	"github.com/samber/lo"

	"iris_api/internal/domain/entity"
	"iris_api/pkg/rest"
)

// newDomainMeasurement expects a validated request: every field is set.
func newDomainMeasurement(m rest.Measurement) entity.Measurement {
	return entity.Measurement{
		SepalLength: lo.FromPtr(m.SepalLength),
		SepalWidth:  lo.FromPtr(m.SepalWidth),
		PetalLength: lo.FromPtr(m.PetalLength),
		PetalWidth:  lo.FromPtr(m.PetalWidth),
	}
}

func newRESTPrediction(p entity.Prediction) rest.Prediction {
	return rest.Prediction{
		Species:       p.Species.String(),
		Confidence:    p.Confidence,
		Probabilities: p.ProbabilityByName(),
	}
}
