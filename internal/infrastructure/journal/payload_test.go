package journal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"iris_api/internal/domain/entity"
	"iris_api/internal/domain/value"
	"iris_api/internal/infrastructure/journal"
)

func TestEncodeDecodeRecord(t *testing.T) {
	rq := require.New(t)

	record := entity.PredictionRecord{
		ID:           "d0a1b2c3",
		TraceID:      "trace",
		ModelVersion: "20260101T000000Z",
		Measurement:  entity.Measurement{SepalLength: 6.3, SepalWidth: 3.3, PetalLength: 6.0, PetalWidth: 2.5},
		Prediction: entity.Prediction{
			Species:       value.Virginica,
			Confidence:    0.97,
			Probabilities: [value.SpeciesCount]float64{0.0001, 0.0299, 0.97},
		},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	payload, err := journal.EncodeRecord(record)
	rq.NoError(err)
	rq.Contains(string(payload), `"species":"virginica"`)

	decoded, err := journal.DecodeRecord(payload)
	rq.NoError(err)
	rq.Equal(record, decoded)
}

func TestDecodeRecordErrors(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		payload     string
		errContains string
	}{
		{name: "Not JSON", payload: "{", errContains: "json.Unmarshal"},
		{name: "No id", payload: `{"species":"setosa"}`, errContains: "no id"},
		{name: "Unknown species", payload: `{"id":"x","species":"rose"}`, errContains: "rose"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			_, err := journal.DecodeRecord([]byte(tc.payload))
			rq.ErrorContains(err, tc.errContains)
		})
	}
}
