package logreg_test

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"iris_api/internal/domain"
	"iris_api/internal/domain/value"
	"iris_api/internal/infrastructure/dataset"
	"iris_api/internal/infrastructure/logreg"
	"iris_api/pkg/errcodes"
)

func fitIris(t *testing.T) *logreg.Model {
	t.Helper()

	d, err := dataset.Load()
	require.NoError(t, err)

	x, y := d.Matrix()

	model := logreg.New(value.SpeciesNames(), value.FeatureNames(), logreg.DefaultParams())
	require.NoError(t, model.Fit(x, y))

	return model
}

func TestFitPredictIris(t *testing.T) {
	rq := require.New(t)

	model := fitIris(t)
	rq.True(model.Fitted())
	rq.Positive(model.Metadata().Iterations)
	rq.Equal(150, model.Metadata().TrainingSamples)

	testCases := []struct {
		name     string
		features []float64
		species  value.Species
	}{
		{name: "Setosa", features: []float64{5.1, 3.5, 1.4, 0.2}, species: value.Setosa},
		{name: "Versicolor", features: []float64{7.0, 3.2, 4.7, 1.4}, species: value.Versicolor},
		{name: "Virginica", features: []float64{6.3, 3.3, 6.0, 2.5}, species: value.Virginica},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			class, proba, err := model.Predict(tc.features)
			rq.NoError(err)
			rq.Equal(int(tc.species), class)
			rq.Len(proba, value.SpeciesCount)
			rq.InDelta(1.0, floats.Sum(proba), 1e-9)
			rq.Equal(floats.Max(proba), proba[class])
		})
	}

	d, err := dataset.Load()
	rq.NoError(err)

	x, y := d.Matrix()

	accuracy, err := model.Score(x, y)
	rq.NoError(err)
	rq.GreaterOrEqual(accuracy, 0.95)
}

func TestPredictProbaSumsToOne(t *testing.T) {
	rq := require.New(t)

	model := fitIris(t)

	for _, x := range [][]float64{
		{0, 0, 0, 0},
		{10, 10, 10, 10},
		{0, 10, 0, 10},
		{10, 0, 10, 0},
		{4.3, 2.0, 1.0, 0.1},
	} {
		proba, err := model.PredictProba(x)
		rq.NoError(err)
		rq.InDelta(1.0, floats.Sum(proba), 1e-9)

		for _, p := range proba {
			rq.False(math.IsNaN(p))
			rq.GreaterOrEqual(p, 0.0)
			rq.LessOrEqual(p, 1.0)
		}
	}
}

func TestPredictProbaErrors(t *testing.T) {
	rq := require.New(t)

	unfitted := logreg.New(value.SpeciesNames(), value.FeatureNames(), logreg.DefaultParams())
	_, err := unfitted.PredictProba([]float64{1, 2, 3, 4})
	rq.True(domain.HasCode(err, errcodes.ModelNotLoaded))

	model := fitIris(t)

	_, err = model.PredictProba([]float64{1, 2, 3})
	rq.True(domain.HasCode(err, errcodes.InvalidMeasurement))

	_, err = model.PredictProba([]float64{1, math.NaN(), 3, 4})
	rq.ErrorContains(err, "sepal_width")

	_, err = model.PredictProba([]float64{1, 2, math.Inf(1), 4})
	rq.ErrorContains(err, "petal_length")
}

func TestFitErrors(t *testing.T) {
	rq := require.New(t)

	classes := []string{"a", "b"}
	features := []string{"f"}

	testCases := []struct {
		name        string
		classes     []string
		params      logreg.Params
		x           [][]float64
		y           []int
		errContains string
	}{
		{name: "Empty", x: nil, y: nil, errContains: "training set is empty"},
		{name: "Length mismatch", x: [][]float64{{1}, {2}}, y: []int{0}, errContains: "2 rows and 1 labels"},
		{name: "Ragged", x: [][]float64{{1}, {2, 3}}, y: []int{0, 1}, errContains: "row 1 has 2 features"},
		{name: "Label out of range", x: [][]float64{{1}, {2}}, y: []int{0, 2}, errContains: "label 2 out of range"},
		{name: "NaN", x: [][]float64{{math.NaN()}, {2}}, y: []int{0, 1}, errContains: "non-finite"},
		{name: "Single class", classes: []string{"a"}, x: [][]float64{{1}}, y: []int{0}, errContains: "at least 2 classes"},
		{
			name:        "Bad C",
			params:      logreg.Params{C: 0, MaxIter: 10, Tolerance: 1e-4},
			x:           [][]float64{{1}, {2}},
			y:           []int{0, 1},
			errContains: "c must be positive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			params := tc.params
			if params == (logreg.Params{}) {
				params = logreg.DefaultParams()
			}

			cls := tc.classes
			if cls == nil {
				cls = classes
			}

			err := logreg.New(cls, features, params).Fit(tc.x, tc.y)
			rq.ErrorContains(err, tc.errContains)
		})
	}
}

func TestFitSeparable(t *testing.T) {
	rq := require.New(t)

	x := [][]float64{{-2}, {-1.5}, {-1}, {1}, {1.5}, {2}}
	y := []int{0, 0, 0, 1, 1, 1}

	model := logreg.New([]string{"neg", "pos"}, []string{"x"}, logreg.DefaultParams())
	rq.NoError(model.Fit(x, y))

	accuracy, err := model.Score(x, y)
	rq.NoError(err)
	rq.InDelta(1.0, accuracy, 1e-12)

	// Regularization keeps the boundary near zero for a symmetric set.
	proba, err := model.PredictProba([]float64{0})
	rq.NoError(err)
	rq.InDelta(0.5, proba[1], 1e-3)
}

func TestSaveLoad(t *testing.T) {
	rq := require.New(t)

	model := fitIris(t)
	model.SetTestAccuracy(0.9667)

	path := filepath.Join(t.TempDir(), "nested", "model.json")
	rq.NoError(model.Save(path))

	loaded, err := logreg.Load(path)
	rq.NoError(err)

	rq.Equal(model.Classes(), loaded.Classes())
	rq.Equal(model.Features(), loaded.Features())
	rq.Equal(model.Params(), loaded.Params())
	rq.Equal(model.Coefficients(), loaded.Coefficients())
	rq.Equal(model.Intercepts(), loaded.Intercepts())
	rq.InDelta(0.9667, loaded.Metadata().TestAccuracy, 1e-12)
	rq.Equal(model.Metadata().Version, loaded.Metadata().Version)

	x := []float64{5.9, 3.0, 5.1, 1.8}

	want, err := model.PredictProba(x)
	rq.NoError(err)

	got, err := loaded.PredictProba(x)
	rq.NoError(err)
	rq.Equal(want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	rq.NoError(err)
	rq.Len(entries, 1)
}

func TestSaveUnfitted(t *testing.T) {
	model := logreg.New(value.SpeciesNames(), value.FeatureNames(), logreg.DefaultParams())
	err := model.Save(filepath.Join(t.TempDir(), "model.json"))
	require.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	rq := require.New(t)

	_, err := logreg.Load(filepath.Join(t.TempDir(), "missing.json"))
	rq.True(errors.Is(err, fs.ErrNotExist))

	testCases := []struct {
		name        string
		content     string
		errContains string
	}{
		{name: "Garbage", content: "not json", errContains: "decode model artifact"},
		{
			name:        "Version",
			content:     `{"format_version":99,"classes":["a","b"],"features":["f"],"coefficients":[[1],[2]],"intercepts":[0,0]}`,
			errContains: "unsupported format version 99",
		},
		{
			name:        "Rows",
			content:     `{"format_version":1,"classes":["a","b"],"features":["f"],"coefficients":[[1]],"intercepts":[0,0]}`,
			errContains: "1 coefficient rows for 2 classes",
		},
		{
			name:        "Columns",
			content:     `{"format_version":1,"classes":["a","b"],"features":["f"],"coefficients":[[1],[2,3]],"intercepts":[0,0]}`,
			errContains: "row 1 has 2 values",
		},
		{
			name:        "Intercepts",
			content:     `{"format_version":1,"classes":["a","b"],"features":["f"],"coefficients":[[1],[2]],"intercepts":[0]}`,
			errContains: "1 intercepts for 2 classes",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			path := filepath.Join(t.TempDir(), "model.json")
			rq.NoError(os.WriteFile(path, []byte(tc.content), 0o600))

			_, err := logreg.Load(path)
			rq.ErrorContains(err, tc.errContains)
			rq.True(domain.HasCode(err, errcodes.InvalidModel))
		})
	}
}
