package persistence

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"iris_api/internal/domain/entity"
	"iris_api/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// predictionSchema maps a row of the predictions table.
type predictionSchema struct {
	ID            string    `db:"id"`
	TraceID       string    `db:"trace_id"`
	ModelVersion  string    `db:"model_version"`
	SepalLength   float64   `db:"sepal_length"`
	SepalWidth    float64   `db:"sepal_width"`
	PetalLength   float64   `db:"petal_length"`
	PetalWidth    float64   `db:"petal_width"`
	Species       string    `db:"species"`
	Confidence    float64   `db:"confidence"`
	Probabilities []byte    `db:"probabilities"`
	CreatedAt     time.Time `db:"created_at"`
}

func fromPredictionRecord(r entity.PredictionRecord) (predictionSchema, error) {
	probabilities, err := json.Marshal(r.Prediction.ProbabilityByName())
	if err != nil {
		return predictionSchema{}, fmt.Errorf("json.Marshal: %w", err)
	}

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return predictionSchema{
		ID:            r.ID,
		TraceID:       r.TraceID,
		ModelVersion:  r.ModelVersion,
		SepalLength:   r.Measurement.SepalLength,
		SepalWidth:    r.Measurement.SepalWidth,
		PetalLength:   r.Measurement.PetalLength,
		PetalWidth:    r.Measurement.PetalWidth,
		Species:       r.Prediction.Species.String(),
		Confidence:    r.Prediction.Confidence,
		Probabilities: probabilities,
		CreatedAt:     createdAt,
	}, nil
}

func (s predictionSchema) toDomain() (entity.PredictionRecord, error) {
	species, err := value.ParseSpecies(s.Species)
	if err != nil {
		return entity.PredictionRecord{}, fmt.Errorf("value.ParseSpecies: %w", err)
	}

	var byName map[string]float64

	if err = json.Unmarshal(s.Probabilities, &byName); err != nil {
		return entity.PredictionRecord{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	p := entity.Prediction{
		Species:    species,
		Confidence: s.Confidence,
	}

	for _, sp := range value.AllSpecies() {
		p.Probabilities[sp] = byName[sp.String()]
	}

	return entity.PredictionRecord{
		ID:           s.ID,
		TraceID:      s.TraceID,
		ModelVersion: s.ModelVersion,
		Measurement: entity.Measurement{
			SepalLength: s.SepalLength,
			SepalWidth:  s.SepalWidth,
			PetalLength: s.PetalLength,
			PetalWidth:  s.PetalWidth,
		},
		Prediction: p,
		CreatedAt:  s.CreatedAt,
	}, nil
}
