package journal

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"iris_api/internal/domain/entity"
	"iris_api/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// TaskRecordPrediction is the task type carrying one served prediction.
const TaskRecordPrediction = "prediction:record"

type recordPayload struct {
	ID            string             `json:"id"`
	TraceID       string             `json:"trace_id,omitempty"`
	ModelVersion  string             `json:"model_version"`
	SepalLength   float64            `json:"sepal_length"`
	SepalWidth    float64            `json:"sepal_width"`
	PetalLength   float64            `json:"petal_length"`
	PetalWidth    float64            `json:"petal_width"`
	Species       string             `json:"species"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
	CreatedAt     time.Time          `json:"created_at"`
}

func EncodeRecord(r entity.PredictionRecord) ([]byte, error) {
	payload := recordPayload{
		ID:            r.ID,
		TraceID:       r.TraceID,
		ModelVersion:  r.ModelVersion,
		SepalLength:   r.Measurement.SepalLength,
		SepalWidth:    r.Measurement.SepalWidth,
		PetalLength:   r.Measurement.PetalLength,
		PetalWidth:    r.Measurement.PetalWidth,
		Species:       r.Prediction.Species.String(),
		Confidence:    r.Prediction.Confidence,
		Probabilities: r.Prediction.ProbabilityByName(),
		CreatedAt:     r.CreatedAt,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func DecodeRecord(data []byte) (entity.PredictionRecord, error) {
	var payload recordPayload

	if err := json.Unmarshal(data, &payload); err != nil {
		return entity.PredictionRecord{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if payload.ID == "" {
		return entity.PredictionRecord{}, fmt.Errorf("payload has no id")
	}

	species, err := value.ParseSpecies(payload.Species)
	if err != nil {
		return entity.PredictionRecord{}, fmt.Errorf("value.ParseSpecies: %w", err)
	}

	p := entity.Prediction{
		Species:    species,
		Confidence: payload.Confidence,
	}

	for _, sp := range value.AllSpecies() {
		p.Probabilities[sp] = payload.Probabilities[sp.String()]
	}

	return entity.PredictionRecord{
		ID:           payload.ID,
		TraceID:      payload.TraceID,
		ModelVersion: payload.ModelVersion,
		Measurement: entity.Measurement{
			SepalLength: payload.SepalLength,
			SepalWidth:  payload.SepalWidth,
			PetalLength: payload.PetalLength,
			PetalWidth:  payload.PetalWidth,
		},
		Prediction: p,
		CreatedAt:  payload.CreatedAt,
	}, nil
}
