package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"iris_api/internal/domain/entity"
	"iris_api/internal/domain/value"
	"iris_api/internal/infrastructure/journal"
	"iris_api/internal/worker"
)

type fakeStore struct {
	records []entity.PredictionRecord
	err     error
}

func (f *fakeStore) Create(_ context.Context, record entity.PredictionRecord) error {
	if f.err != nil {
		return f.err
	}

	f.records = append(f.records, record)

	return nil
}

func TestJournalHandler(t *testing.T) {
	rq := require.New(t)

	record := entity.PredictionRecord{
		ID:           "cv0abc",
		TraceID:      "trace",
		ModelVersion: "v1",
		Measurement:  entity.Measurement{SepalLength: 5.1, SepalWidth: 3.5, PetalLength: 1.4, PetalWidth: 0.2},
		Prediction:   entity.Prediction{Species: value.Setosa, Confidence: 0.98},
	}

	payload, err := journal.EncodeRecord(record)
	rq.NoError(err)

	store := &fakeStore{}
	handler := worker.NewJournalHandler(store)

	rq.Equal(journal.TaskRecordPrediction, handler.Handler().Pattern)

	rq.NoError(handler.ProcessTask(context.Background(), asynq.NewTask(journal.TaskRecordPrediction, payload)))
	rq.Len(store.records, 1)
	rq.Equal(record.ID, store.records[0].ID)
	rq.Equal(value.Setosa, store.records[0].Prediction.Species)

	store.err = errors.New("connection refused")
	err = handler.ProcessTask(context.Background(), asynq.NewTask(journal.TaskRecordPrediction, payload))
	rq.ErrorContains(err, "connection refused")
	rq.NotErrorIs(err, asynq.SkipRetry)
}

func TestJournalHandlerBadPayload(t *testing.T) {
	rq := require.New(t)

	handler := worker.NewJournalHandler(&fakeStore{})

	err := handler.ProcessTask(context.Background(), asynq.NewTask(journal.TaskRecordPrediction, []byte("{")))
	rq.ErrorIs(err, asynq.SkipRetry)
}
