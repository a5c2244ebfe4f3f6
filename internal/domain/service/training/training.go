// Package training fits the species classifier on a labelled dataset,
// evaluates it on a held-out split and persists the artifact.
package training

import (
	"context"
	"fmt"
	"log/slog"

	"iris_api/internal/domain/entity"
	"iris_api/internal/domain/value"
	"iris_api/internal/infrastructure/logreg"
	"iris_api/pkg/contextx"
	"iris_api/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type DatasetSource interface {
	// Load reads the dataset at path, or the built-in one when path is empty.
	Load(path string) (entity.Dataset, error)
}

type Options struct {
	DataPath string
	// ModelPath is where the artifact is written. Empty skips persisting.
	ModelPath string
	TestSize  float64
	Seed      uint64
	Params    logreg.Params
}

func DefaultOptions() Options {
	return Options{
		ModelPath: "model.json",
		TestSize:  0.2, //nolint:mnd
		Seed:      42,  //nolint:mnd
		Params:    logreg.DefaultParams(),
	}
}

type Service struct {
	source DatasetSource
}

func NewService(source DatasetSource) *Service {
	return &Service{
		source: source,
	}
}

func (s *Service) Train(ctx context.Context, opts Options) (Report, error) {
	data, err := s.source.Load(opts.DataPath)
	if err != nil {
		return Report{}, fmt.Errorf("source.Load: %w", err)
	}

	_, labels := data.Matrix()

	trainIdx, testIdx, err := StratifiedSplit(labels, opts.TestSize, opts.Seed)
	if err != nil {
		return Report{}, fmt.Errorf("StratifiedSplit: %w", err)
	}

	train, test := data.Subset(trainIdx), data.Subset(testIdx)

	logger(ctx).Info("training started",
		slog.Int("train-samples", train.Len()),
		slog.Int("test-samples", test.Len()),
		slog.Float64("c", opts.Params.C),
		slog.Int("max-iter", opts.Params.MaxIter),
	)

	if err = ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("ctx.Err: %w", err)
	}

	model := logreg.New(value.SpeciesNames(), value.FeatureNames(), opts.Params)

	trainX, trainY := train.Matrix()

	if err = model.Fit(trainX, trainY); err != nil {
		return Report{}, fmt.Errorf("model.Fit: %w", err)
	}

	meta := model.Metadata()
	if !meta.Converged {
		logger(ctx).Warn("solver did not converge, consider raising max-iter",
			slog.Int("iterations", meta.Iterations),
		)
	}

	report, err := evaluate(model, test)
	if err != nil {
		return Report{}, fmt.Errorf("evaluate: %w", err)
	}

	report.TrainSamples = train.Len()
	report.Iterations = meta.Iterations
	report.Converged = meta.Converged
	report.ModelVersion = meta.Version

	model.SetTestAccuracy(report.Accuracy)

	if opts.ModelPath != "" {
		if err = model.Save(opts.ModelPath); err != nil {
			return Report{}, fmt.Errorf("model.Save: %w", err)
		}

		report.ModelPath = opts.ModelPath

		logger(ctx).Info("model saved",
			slog.String(logx.FieldModelPath, opts.ModelPath),
			slog.String(logx.FieldModelVersion, meta.Version),
		)
	}

	logger(ctx).Info("training finished", slog.Float64("accuracy", report.Accuracy))

	return report, nil
}

func evaluate(model *logreg.Model, test entity.Dataset) (Report, error) {
	x, y := test.Matrix()
	predicted := make([]int, len(x))

	for i, row := range x {
		class, _, err := model.Predict(row)
		if err != nil {
			return Report{}, fmt.Errorf("model.Predict: %w", err)
		}

		predicted[i] = class
	}

	return newReport(model.Classes(), y, predicted), nil
}
