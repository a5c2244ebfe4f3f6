// Package dataset reads labelled flower measurements from CSV. The classic
// 150-row iris table is embedded so training needs no external files.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"iris_api/internal/domain"
	"iris_api/internal/domain/entity"
	"iris_api/internal/domain/value"
	"iris_api/pkg/errcodes"
)

//go:embed iris.csv
var irisCSV []byte

const columnCount = value.FeatureCount + 1

// Load parses the embedded iris table.
func Load() (entity.Dataset, error) {
	return Parse(bytes.NewReader(irisCSV))
}

// LoadFile parses a CSV file with the same layout as the embedded table.
func LoadFile(path string) (entity.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a header row followed by four numeric columns and a species
// name per line. Blank lines are skipped.
func Parse(r io.Reader) (entity.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return entity.Dataset{}, domain.NewError(errcodes.InvalidDataset, "dataset is empty")
	}

	if err != nil {
		return entity.Dataset{}, fmt.Errorf("reader.Read(header): %w", err)
	}

	if len(header) != columnCount {
		return entity.Dataset{}, domain.NewError(errcodes.InvalidDataset,
			fmt.Sprintf("header has %d columns, want %d", len(header), columnCount))
	}

	var samples []entity.Sample

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return entity.Dataset{}, fmt.Errorf("reader.Read: %w", err)
		}

		line, _ := reader.FieldPos(0)

		sample, err := parseRecord(record)
		if err != nil {
			return entity.Dataset{}, domain.WrapError(err, errcodes.InvalidDataset, fmt.Sprintf("line %d", line))
		}

		samples = append(samples, sample)
	}

	if len(samples) == 0 {
		return entity.Dataset{}, domain.NewError(errcodes.InvalidDataset, "dataset has no samples")
	}

	return entity.Dataset{Samples: samples}, nil
}

func parseRecord(record []string) (entity.Sample, error) {
	if len(record) != columnCount {
		return entity.Sample{}, fmt.Errorf("got %d columns, want %d", len(record), columnCount)
	}

	var sample entity.Sample

	for i := range value.FeatureCount {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return entity.Sample{}, fmt.Errorf("%s: %w", value.FeatureNames()[i], err)
		}

		sample.Features[i] = v
	}

	species, err := value.ParseSpecies(record[value.FeatureCount])
	if err != nil {
		return entity.Sample{}, fmt.Errorf("value.ParseSpecies: %w", err)
	}

	sample.Label = species

	return sample, nil
}

// Source loads a CSV file, falling back to the embedded table for an empty
// path.
type Source struct{}

func (Source) Load(path string) (entity.Dataset, error) {
	if path == "" {
		return Load()
	}

	return LoadFile(path)
}
