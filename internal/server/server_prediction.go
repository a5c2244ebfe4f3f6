package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"

	"iris_api/internal/domain"
	"iris_api/internal/domain/entity"
	"iris_api/pkg/errcodes"
	"iris_api/pkg/httpx/reply"
	"iris_api/pkg/httpx/req"
	"iris_api/pkg/rest"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	defaultMaxBatchSize = 1000
)

type predictionService interface {
	Predict(context.Context, entity.Measurement) (entity.Prediction, error)
	PredictBatch(context.Context, []entity.Measurement) ([]entity.Prediction, error)
	Ready() bool
}

type PredictionServer struct {
	predictionService predictionService
	maxBatchSize      int
}

func NewPredictionServer(predictionService predictionService, maxBatchSize int) PredictionServer {
	if maxBatchSize <= 0 {
		maxBatchSize = defaultMaxBatchSize
	}

	return PredictionServer{
		predictionService: predictionService,
		maxBatchSize:      maxBatchSize,
	}
}

func (s PredictionServer) getHealth(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if !s.predictionService.Ready() {
		reply.JSON(ctx, w, http.StatusServiceUnavailable, rest.Health{Status: statusUnhealthy})

		return nil
	}

	reply.JSON(ctx, w, http.StatusOK, rest.Health{Status: statusHealthy, IsModelLoaded: true})

	return nil
}

func (s PredictionServer) postPredict(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.Measurement

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	prediction, err := s.predictionService.Predict(ctx, newDomainMeasurement(request))
	if err != nil {
		return toHTTPError(fmt.Errorf("predictionService.Predict: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPrediction(prediction))

	return nil
}

func (s PredictionServer) postPredictBatch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	request, err := req.ReadList[rest.Measurement](r, s.maxBatchSize)
	if err != nil {
		return fmt.Errorf("req.ReadList: %w", err)
	}

	predictions, err := s.predictionService.PredictBatch(ctx, lo.Map(request, func(m rest.Measurement, _ int) entity.Measurement {
		return newDomainMeasurement(m)
	}))
	if err != nil {
		return toHTTPError(fmt.Errorf("predictionService.PredictBatch: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, rest.BatchPrediction{
		Predictions: lo.Map(predictions, func(p entity.Prediction, _ int) rest.Prediction {
			return newRESTPrediction(p)
		}),
	})

	return nil
}

// toHTTPError turns domain rejections of the input into validation errors.
// Everything else stays a server error. The client sees the rejection
// itself, not the wrap chain.
func toHTTPError(err error) error {
	if !domain.HasCode(err, errcodes.InvalidMeasurement) {
		return err
	}

	description := err.Error()
	if appErr, ok := domain.Innermost(err); ok {
		description = appErr.Error()
	}

	var itemErr *domain.ItemError
	if errors.As(err, &itemErr) {
		description = fmt.Sprintf("item %d: %s", itemErr.Index, description)
	}

	return failure.NewUnprocessableEntityErrorFromError(err,
		failure.WithCode(errcodes.ValidationError),
		failure.WithDescription(description),
	)
}
