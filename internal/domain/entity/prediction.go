package entity

import (
	"time"

	"iris_api/internal/domain/value"
)

type Prediction struct {
	Species    value.Species
	Confidence float64
	// Probabilities is indexed by value.Species and sums to 1.
	Probabilities [value.SpeciesCount]float64
}

// ProbabilityByName keys the distribution by species name.
func (p Prediction) ProbabilityByName() map[string]float64 {
	result := make(map[string]float64, value.SpeciesCount)

	for _, species := range value.AllSpecies() {
		result[species.String()] = p.Probabilities[species]
	}

	return result
}

// PredictionRecord is a served prediction as kept by the journal.
type PredictionRecord struct {
	ID           string
	TraceID      string
	ModelVersion string
	Measurement  Measurement
	Prediction   Prediction
	CreatedAt    time.Time
}
