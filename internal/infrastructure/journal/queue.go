// Package journal hands served predictions to a background worker through
// an asynq queue. Enqueueing is one Redis round trip; the prediction service
// calls it from its own goroutine, off the request path.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"iris_api/internal/domain"
	"iris_api/internal/domain/entity"
	"iris_api/pkg/contextx"
	"iris_api/pkg/errcodes"
	"iris_api/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Queue struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// NewQueue enqueues through an existing Redis client. The client stays
// owned by the caller.
func NewQueue(redisClient redis.UniversalClient, queue string, maxRetry int) *Queue {
	return &Queue{
		client:   asynq.NewClientFromRedisClient(redisClient),
		queue:    queue,
		maxRetry: maxRetry,
	}
}

// Record enqueues the record. The record id doubles as the task id, so
// enqueueing the same record twice is reported as a duplicate and ignored.
func (q *Queue) Record(ctx context.Context, record entity.PredictionRecord) error {
	payload, err := EncodeRecord(record)
	if err != nil {
		return fmt.Errorf("EncodeRecord: %w", err)
	}

	task := asynq.NewTask(TaskRecordPrediction, payload,
		asynq.Queue(q.queue),
		asynq.MaxRetry(q.maxRetry),
		asynq.TaskID(record.ID),
	)

	info, err := q.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}

	if err != nil {
		return domain.WrapError(err, errcodes.JournalUnavailable, "failed to enqueue prediction")
	}

	logger(ctx).Debug("prediction enqueued",
		slog.String(logx.FieldTaskID, info.ID),
		slog.String("queue", info.Queue),
	)

	return nil
}
