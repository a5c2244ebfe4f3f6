package logreg

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	jsoniter "github.com/json-iterator/go"
	"gonum.org/v1/gonum/mat"

	"iris_api/internal/domain"
	"iris_api/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// FormatVersion is bumped whenever the artifact layout changes.
const FormatVersion = 1

type artifact struct {
	FormatVersion int         `json:"format_version"`
	Classes       []string    `json:"classes"`
	Features      []string    `json:"features"`
	Coefficients  [][]float64 `json:"coefficients"`
	Intercepts    []float64   `json:"intercepts"`
	Params        Params      `json:"params"`
	Metadata      Metadata    `json:"metadata"`
}

// MarshalJSON encodes a fitted model as a versioned artifact.
func (m *Model) MarshalJSON() ([]byte, error) {
	if !m.Fitted() {
		return nil, domain.NewError(errcodes.ModelNotLoaded, "model is not fitted")
	}

	return json.Marshal(artifact{
		FormatVersion: FormatVersion,
		Classes:       m.classes,
		Features:      m.features,
		Coefficients:  m.Coefficients(),
		Intercepts:    m.intercepts,
		Params:        m.params,
		Metadata:      m.meta,
	})
}

func (m *Model) UnmarshalJSON(data []byte) error {
	var a artifact

	if err := json.Unmarshal(data, &a); err != nil {
		return domain.WrapError(err, errcodes.InvalidModel, "decode model artifact")
	}

	if err := a.validate(); err != nil {
		return domain.WrapError(err, errcodes.InvalidModel, "model artifact")
	}

	k, d := len(a.Classes), len(a.Features)

	weights := mat.NewDense(k, d, nil)
	for i, row := range a.Coefficients {
		weights.SetRow(i, row)
	}

	*m = Model{
		classes:    a.Classes,
		features:   a.Features,
		params:     a.Params,
		weights:    weights,
		intercepts: slices.Clone(a.Intercepts),
		meta:       a.Metadata,
	}

	return nil
}

func (a artifact) validate() error {
	if a.FormatVersion != FormatVersion {
		return fmt.Errorf("unsupported format version %d, want %d", a.FormatVersion, FormatVersion)
	}

	k, d := len(a.Classes), len(a.Features)

	switch {
	case k < 2: //nolint:mnd
		return fmt.Errorf("need at least 2 classes, got %d", k)
	case d == 0:
		return fmt.Errorf("need at least 1 feature")
	case len(a.Coefficients) != k:
		return fmt.Errorf("got %d coefficient rows for %d classes", len(a.Coefficients), k)
	case len(a.Intercepts) != k:
		return fmt.Errorf("got %d intercepts for %d classes", len(a.Intercepts), k)
	case !allFinite(a.Intercepts):
		return fmt.Errorf("intercepts contain a non-finite value")
	}

	for i, row := range a.Coefficients {
		if len(row) != d {
			return fmt.Errorf("coefficient row %d has %d values for %d features", i, len(row), d)
		}

		if !allFinite(row) {
			return fmt.Errorf("coefficient row %d contains a non-finite value", i)
		}
	}

	return nil
}

// Save writes the artifact atomically: a reader never sees a partial file.
func (m *Model) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	dir := filepath.Dir(path)

	if err = os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err = tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()

		return fmt.Errorf("tmp.Write: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}

// Load reads an artifact written by Save.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var m Model

	if err = m.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("model.UnmarshalJSON: %w", err)
	}

	return &m, nil
}
