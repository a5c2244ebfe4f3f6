package logreg

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Fit learns weights and intercepts by minimizing
//
//	C * sum(cross-entropy) + 0.5 * ||W||^2
//
// with L-BFGS. Intercepts are not penalized. Hitting the iteration limit is
// not an error; check Metadata().Converged.
func (m *Model) Fit(x [][]float64, y []int) error {
	if err := m.params.validate(); err != nil {
		return fmt.Errorf("params: %w", err)
	}

	if err := m.checkTrainingSet(x, y); err != nil {
		return err
	}

	n, d, k := len(x), len(m.features), len(m.classes)

	data := make([]float64, 0, n*d)
	for _, row := range x {
		data = append(data, row...)
	}

	obj := objective{
		x:       mat.NewDense(n, d, data),
		y:       y,
		classes: k,
		c:       m.params.C,
	}

	problem := optimize.Problem{
		Func: obj.loss,
		Grad: obj.grad,
	}

	settings := &optimize.Settings{
		GradientThreshold: m.params.Tolerance,
		MajorIterations:   m.params.MaxIter,
	}

	result, err := optimize.Minimize(problem, make([]float64, k*d+k), settings, &optimize.LBFGS{})
	if result == nil {
		return fmt.Errorf("optimize.Minimize: %w", err)
	}

	if !allFinite(result.X) {
		return fmt.Errorf("optimize.Minimize: diverged with status %s", result.Status)
	}

	m.weights = mat.NewDense(k, d, slices.Clone(result.X[:k*d]))
	m.intercepts = slices.Clone(result.X[k*d:])

	createdAt := time.Now().UTC()

	m.meta = Metadata{
		Version:         createdAt.Format("20060102T150405Z"),
		TrainingSamples: n,
		Iterations:      result.Stats.MajorIterations,
		// A line search that stalls at the optimum still leaves a usable model.
		Converged: err == nil && (result.Status == optimize.GradientThreshold ||
			result.Status == optimize.FunctionConvergence),
		CreatedAt: createdAt,
	}

	return nil
}

func (m *Model) checkTrainingSet(x [][]float64, y []int) error {
	switch {
	case len(m.classes) < 2: //nolint:mnd
		return fmt.Errorf("need at least 2 classes, got %d", len(m.classes))
	case len(m.features) == 0:
		return fmt.Errorf("need at least 1 feature")
	case len(x) == 0:
		return fmt.Errorf("training set is empty")
	case len(x) != len(y):
		return fmt.Errorf("got %d rows and %d labels", len(x), len(y))
	}

	for i, row := range x {
		if len(row) != len(m.features) {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), len(m.features))
		}

		if !allFinite(row) {
			return fmt.Errorf("row %d has a non-finite value", i)
		}

		if y[i] < 0 || y[i] >= len(m.classes) {
			return fmt.Errorf("row %d: label %d out of range [0, %d)", i, y[i], len(m.classes))
		}
	}

	return nil
}

// objective is the penalized multinomial cross-entropy over the parameter
// vector theta = [W (row-major, classes x features), b (classes)].
type objective struct {
	x       *mat.Dense
	y       []int
	classes int
	c       float64
}

func (o objective) split(theta []float64) (*mat.Dense, []float64) {
	_, d := o.x.Dims()

	return mat.NewDense(o.classes, d, theta[:o.classes*d]), theta[o.classes*d:]
}

// scores returns X * W^T + b, one row per sample.
func (o objective) scores(theta []float64) *mat.Dense {
	w, b := o.split(theta)
	n, _ := o.x.Dims()

	z := mat.NewDense(n, o.classes, nil)
	z.Mul(o.x, w.T())

	for i := range n {
		floats.Add(z.RawRowView(i), b)
	}

	return z
}

func (o objective) loss(theta []float64) float64 {
	z := o.scores(theta)
	n, _ := z.Dims()

	var crossEntropy float64

	for i := range n {
		row := z.RawRowView(i)
		crossEntropy += floats.LogSumExp(row) - row[o.y[i]]
	}

	w := theta[:len(theta)-o.classes]

	return o.c*crossEntropy + 0.5*floats.Dot(w, w) //nolint:mnd
}

func (o objective) grad(grad, theta []float64) {
	z := o.scores(theta)
	n, d := o.x.Dims()

	// Turn scores into residuals P - Y.
	for i := range n {
		row := z.RawRowView(i)
		softmax(row)
		row[o.y[i]]--
	}

	w, _ := o.split(theta)

	gw := mat.NewDense(o.classes, d, grad[:o.classes*d])
	gw.Mul(z.T(), o.x)
	gw.Scale(o.c, gw)
	gw.Add(gw, w)

	gb := grad[o.classes*d:]
	for k := range o.classes {
		gb[k] = o.c * floats.Sum(mat.Col(nil, k, z))
	}
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
