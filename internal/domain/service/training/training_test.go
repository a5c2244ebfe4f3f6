package training_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"iris_api/internal/domain/entity"
	"iris_api/internal/domain/service/training"
	"iris_api/internal/domain/value"
	"iris_api/internal/infrastructure/dataset"
	"iris_api/internal/infrastructure/logreg"
)

type failingSource struct{}

func (failingSource) Load(string) (entity.Dataset, error) {
	return entity.Dataset{}, errors.New("disk on fire")
}

func TestTrain(t *testing.T) {
	rq := require.New(t)

	opts := training.DefaultOptions()
	opts.ModelPath = filepath.Join(t.TempDir(), "model.json")

	report, err := training.NewService(dataset.Source{}).Train(context.Background(), opts)
	rq.NoError(err)

	rq.Equal(120, report.TrainSamples)
	rq.Equal(30, report.TestSamples)
	rq.GreaterOrEqual(report.Accuracy, 0.9)
	rq.Len(report.Classes, value.SpeciesCount)
	rq.Equal(opts.ModelPath, report.ModelPath)
	rq.NotEmpty(report.ModelVersion)

	for _, class := range report.Classes {
		rq.Equal(10, class.Support)
	}

	rq.Equal(30, report.WeightedAvg.Support)

	model, err := logreg.Load(opts.ModelPath)
	rq.NoError(err)
	rq.Equal(value.SpeciesNames(), model.Classes())
	rq.InDelta(report.Accuracy, model.Metadata().TestAccuracy, 1e-12)

	text := report.String()
	rq.Contains(text, "Model Accuracy:")
	rq.Contains(text, "versicolor")
	rq.Contains(text, "weighted avg")
}

func TestTrainDeterministic(t *testing.T) {
	rq := require.New(t)

	opts := training.DefaultOptions()
	opts.ModelPath = ""

	svc := training.NewService(dataset.Source{})

	first, err := svc.Train(context.Background(), opts)
	rq.NoError(err)

	second, err := svc.Train(context.Background(), opts)
	rq.NoError(err)

	rq.Empty(first.ModelPath)
	rq.Equal(first.Accuracy, second.Accuracy)
	rq.Equal(first.Classes, second.Classes)
}

func TestTrainErrors(t *testing.T) {
	rq := require.New(t)

	_, err := training.NewService(failingSource{}).Train(context.Background(), training.DefaultOptions())
	rq.ErrorContains(err, "disk on fire")

	opts := training.DefaultOptions()
	opts.TestSize = 1.5
	_, err = training.NewService(dataset.Source{}).Train(context.Background(), opts)
	rq.ErrorContains(err, "test size")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts = training.DefaultOptions()
	opts.ModelPath = ""
	_, err = training.NewService(dataset.Source{}).Train(ctx, opts)
	rq.ErrorIs(err, context.Canceled)
}

func TestStratifiedSplit(t *testing.T) {
	rq := require.New(t)

	labels := make([]int, 0, 150)
	for class := range 3 {
		for range 50 {
			labels = append(labels, class)
		}
	}

	train, test, err := training.StratifiedSplit(labels, 0.2, 42)
	rq.NoError(err)
	rq.Len(train, 120)
	rq.Len(test, 30)

	seen := make(map[int]bool, len(labels))
	testPerClass := make([]int, 3)

	for _, idx := range train {
		seen[idx] = true
	}

	for _, idx := range test {
		rq.False(seen[idx], "index %d in both splits", idx)
		seen[idx] = true
		testPerClass[labels[idx]]++
	}

	rq.Len(seen, 150)
	rq.Equal([]int{10, 10, 10}, testPerClass)

	again, _, err := training.StratifiedSplit(labels, 0.2, 42)
	rq.NoError(err)
	rq.Equal(train, again)

	other, _, err := training.StratifiedSplit(labels, 0.2, 7)
	rq.NoError(err)
	rq.NotEqual(train, other)
}

func TestStratifiedSplitSmallClasses(t *testing.T) {
	rq := require.New(t)

	train, test, err := training.StratifiedSplit([]int{0, 0, 1, 1}, 0.1, 1)
	rq.NoError(err)
	rq.Len(train, 2)
	rq.Len(test, 2)

	_, _, err = training.StratifiedSplit([]int{0}, 0.5, 1)
	rq.ErrorContains(err, "empty side")

	_, _, err = training.StratifiedSplit([]int{0, 1}, 0, 1)
	rq.ErrorContains(err, "test size")
}

func TestReportString(t *testing.T) {
	rq := require.New(t)

	report := training.Report{
		TestSamples: 4,
		Accuracy:    0.75,
		Classes: []training.ClassMetrics{
			{Name: "setosa", Precision: 1, Recall: 1, F1: 1, Support: 2},
			{Name: "versicolor", Precision: 0.5, Recall: 1, F1: 0.67, Support: 1},
		},
		MacroAvg:    training.ClassMetrics{Name: "macro avg", Support: 4},
		WeightedAvg: training.ClassMetrics{Name: "weighted avg", Support: 4},
	}

	lines := strings.Split(report.String(), "\n")
	rq.Equal("Model Accuracy: 0.7500", lines[0])
	rq.Contains(report.String(), "      setosa       1.00       1.00       1.00          2")
	rq.Contains(report.String(), "  versicolor       0.50       1.00       0.67          1")
}
