package entity

import (
	"iris_api/internal/domain/value"
)

type Sample struct {
	Features [value.FeatureCount]float64
	Label    value.Species
}

type Dataset struct {
	Samples []Sample
}

func (d Dataset) Len() int {
	return len(d.Samples)
}

// Matrix splits the dataset into model inputs and class indices.
func (d Dataset) Matrix() ([][]float64, []int) {
	x := make([][]float64, len(d.Samples))
	y := make([]int, len(d.Samples))

	for i, s := range d.Samples {
		x[i] = s.Features[:]
		y[i] = int(s.Label)
	}

	return x, y
}

// Subset returns the samples at the given positions, in that order.
func (d Dataset) Subset(indices []int) Dataset {
	samples := make([]Sample, len(indices))

	for i, idx := range indices {
		samples[i] = d.Samples[idx]
	}

	return Dataset{Samples: samples}
}

// CountByLabel returns how many samples each species has.
func (d Dataset) CountByLabel() [value.SpeciesCount]int {
	var counts [value.SpeciesCount]int

	for _, s := range d.Samples {
		counts[s.Label]++
	}

	return counts
}
