package training

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// StratifiedSplit shuffles sample indices with a seeded generator and moves
// testSize of every class into the test split, so both splits keep the
// class proportions of the input. Every class with at least two samples
// lands in both splits.
func StratifiedSplit(labels []int, testSize float64, seed uint64) ([]int, []int, error) {
	if !(testSize > 0 && testSize < 1) {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]int, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}

	slices.Sort(classes)

	rnd := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec

	var train, test []int

	for _, class := range classes {
		indices := byClass[class]
		rnd.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		nTest := int(math.Round(testSize * float64(len(indices))))
		if len(indices) >= 2 { //nolint:mnd
			nTest = min(max(nTest, 1), len(indices)-1)
		}

		test = append(test, indices[:nTest]...)
		train = append(train, indices[nTest:]...)
	}

	if len(train) == 0 || len(test) == 0 {
		return nil, nil, fmt.Errorf("split of %d samples left an empty side", len(labels))
	}

	rnd.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rnd.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })

	return train, test, nil
}
