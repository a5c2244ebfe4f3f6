package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"iris_api/internal/domain/value"
)

func TestParseSpecies(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		input   string
		species value.Species
		wantErr bool
	}{
		{input: "setosa", species: value.Setosa},
		{input: "Iris-versicolor", species: value.Versicolor},
		{input: " VIRGINICA ", species: value.Virginica},
		{input: "rose", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(*testing.T) {
			species, err := value.ParseSpecies(tc.input)
			if tc.wantErr {
				rq.Error(err)

				return
			}

			rq.NoError(err)
			rq.Equal(tc.species, species)
		})
	}
}

func TestSpeciesString(t *testing.T) {
	rq := require.New(t)

	rq.Equal([]string{"setosa", "versicolor", "virginica"}, value.SpeciesNames())

	for i, species := range value.AllSpecies() {
		rq.Equal(value.SpeciesNames()[i], species.String())
	}

	rq.Equal("Species(7)", value.Species(7).String())
	rq.False(value.Species(-1).Valid())
}
