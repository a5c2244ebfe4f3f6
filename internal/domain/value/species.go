package value

import (
	"fmt"
	"strings"
)

// Species is one of the three fixed iris categories. The numeric value is
// the class index the model is trained with.
type Species int

const (
	Setosa Species = iota
	Versicolor
	Virginica
)

const SpeciesCount = 3

//nolint:gochecknoglobals
var speciesNames = [SpeciesCount]string{"setosa", "versicolor", "virginica"}

func AllSpecies() []Species {
	return []Species{Setosa, Versicolor, Virginica}
}

func SpeciesNames() []string {
	return speciesNames[:]
}

func (s Species) Valid() bool {
	return s >= Setosa && s <= Virginica
}

func (s Species) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Species(%d)", int(s))
	}

	return speciesNames[s]
}

// ParseSpecies accepts both "setosa" and the UCI spelling "Iris-setosa".
func ParseSpecies(name string) (Species, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.TrimPrefix(normalized, "iris-")

	for i, known := range speciesNames {
		if normalized == known {
			return Species(i), nil
		}
	}

	return 0, fmt.Errorf("unknown species %q", name)
}
