package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"iris_api/internal/domain/entity"
	"iris_api/internal/infrastructure/journal"
	"iris_api/pkg/application/modules"
	"iris_api/pkg/contextx"
	"iris_api/pkg/logx"
)

type PredictionStore interface {
	Create(ctx context.Context, record entity.PredictionRecord) error
}

// JournalHandler stores prediction records taken from the journal queue.
type JournalHandler struct {
	store PredictionStore
}

func NewJournalHandler(store PredictionStore) *JournalHandler {
	return &JournalHandler{
		store: store,
	}
}

func (h *JournalHandler) Handler() modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: journal.TaskRecordPrediction,
		Handle:  h.ProcessTask,
	}
}

// ProcessTask stores one record. A payload that cannot be decoded is never
// retried; storage failures are, with asynq's backoff.
func (h *JournalHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	record, err := journal.DecodeRecord(task.Payload())
	if err != nil {
		return fmt.Errorf("journal.DecodeRecord: %w: %w", err, asynq.SkipRetry)
	}

	if record.TraceID != "" {
		ctx = contextx.WithTraceID(ctx, contextx.TraceID(record.TraceID))
	}

	if err = h.store.Create(ctx, record); err != nil {
		return fmt.Errorf("store.Create: %w", err)
	}

	logger(ctx).Debug("prediction stored",
		slog.String(logx.FieldRequestID, record.ID),
		slog.String(logx.FieldSpecies, record.Prediction.Species.String()),
	)

	return nil
}
