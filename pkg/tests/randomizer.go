package tests

import (
	"math"
	"math/rand"
	"time"

	"iris_api/pkg/rest"
)

type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
	}
}

// Measurement returns a valid measurement: every field in [0, 10] with one
// decimal, like the browser form submits.
func (r Randomizer) Measurement() rest.Measurement {
	field := func() *float64 {
		v := math.Round(r.Float64()*100) / 10 //nolint:mnd // 0.0..10.0

		return &v
	}

	return rest.Measurement{
		SepalLength: field(),
		SepalWidth:  field(),
		PetalLength: field(),
		PetalWidth:  field(),
	}
}
