// Package logreg implements multinomial logistic regression: a linear score
// per class turned into a probability distribution with softmax.
package logreg

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"iris_api/internal/domain"
	"iris_api/pkg/errcodes"
)

// Params are the training hyper-parameters.
type Params struct {
	// C is the inverse L2 regularization strength.
	C         float64 `json:"c"`
	MaxIter   int     `json:"max_iter"`
	Tolerance float64 `json:"tolerance"`
}

func DefaultParams() Params {
	return Params{
		C:         1.0,
		MaxIter:   1000, //nolint:mnd
		Tolerance: 1e-4, //nolint:mnd
	}
}

func (p Params) validate() error {
	switch {
	case !(p.C > 0):
		return fmt.Errorf("c must be positive, got %v", p.C)
	case p.MaxIter <= 0:
		return fmt.Errorf("max_iter must be positive, got %d", p.MaxIter)
	case !(p.Tolerance > 0):
		return fmt.Errorf("tolerance must be positive, got %v", p.Tolerance)
	}

	return nil
}

// Metadata describes how a fitted model came to be.
type Metadata struct {
	Version         string    `json:"version"`
	TrainingSamples int       `json:"training_samples"`
	Iterations      int       `json:"iterations"`
	Converged       bool      `json:"converged"`
	TestAccuracy    float64   `json:"test_accuracy"`
	CreatedAt       time.Time `json:"created_at"`
}

type Model struct {
	classes    []string
	features   []string
	params     Params
	weights    *mat.Dense // classes x features
	intercepts []float64
	meta       Metadata
}

// New returns an unfitted model for the given class and feature names.
func New(classes, features []string, params Params) *Model {
	return &Model{
		classes:  slices.Clone(classes),
		features: slices.Clone(features),
		params:   params,
	}
}

func (m *Model) Classes() []string  { return slices.Clone(m.classes) }
func (m *Model) Features() []string { return slices.Clone(m.features) }
func (m *Model) Params() Params     { return m.params }
func (m *Model) Metadata() Metadata { return m.meta }
func (m *Model) Fitted() bool       { return m.weights != nil }

// SetTestAccuracy records the held-out accuracy measured by the caller.
func (m *Model) SetTestAccuracy(accuracy float64) {
	m.meta.TestAccuracy = accuracy
}

// Coefficients returns a copy of the weight matrix, one row per class.
func (m *Model) Coefficients() [][]float64 {
	if m.weights == nil {
		return nil
	}

	rows, _ := m.weights.Dims()
	result := make([][]float64, rows)

	for k := range rows {
		result[k] = slices.Clone(m.weights.RawRowView(k))
	}

	return result
}

func (m *Model) Intercepts() []float64 {
	return slices.Clone(m.intercepts)
}

// PredictProba returns one probability per class, summing to 1.
func (m *Model) PredictProba(x []float64) ([]float64, error) {
	if !m.Fitted() {
		return nil, domain.NewError(errcodes.ModelNotLoaded, "model is not fitted")
	}

	if len(x) != len(m.features) {
		return nil, domain.NewError(errcodes.InvalidMeasurement,
			fmt.Sprintf("got %d features, want %d", len(x), len(m.features)))
	}

	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, domain.NewError(errcodes.InvalidMeasurement,
				fmt.Sprintf("%s is not a finite number", m.features[i]))
		}
	}

	scores := make([]float64, len(m.classes))

	for k := range scores {
		scores[k] = floats.Dot(m.weights.RawRowView(k), x) + m.intercepts[k]
	}

	softmax(scores)

	return scores, nil
}

// Predict returns the most probable class index and the full distribution.
func (m *Model) Predict(x []float64) (int, []float64, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return 0, nil, err
	}

	return floats.MaxIdx(proba), proba, nil
}

// Score returns the share of rows whose predicted class matches y.
func (m *Model) Score(x [][]float64, y []int) (float64, error) {
	if len(x) == 0 || len(x) != len(y) {
		return 0, fmt.Errorf("got %d rows and %d labels", len(x), len(y))
	}

	var hits int

	for i, row := range x {
		class, _, err := m.Predict(row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}

		if class == y[i] {
			hits++
		}
	}

	return float64(hits) / float64(len(x)), nil
}

// softmax replaces scores with exp(s - logsumexp(s)) in place.
func softmax(scores []float64) {
	lse := floats.LogSumExp(scores)

	for k, s := range scores {
		scores[k] = math.Exp(s - lse)
	}
}
