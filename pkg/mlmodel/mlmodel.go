// Package mlmodel reads MLmodel files, the descriptors of models logged to MLflow.
package mlmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// name of the descriptor file in a model directory.
const FileName = "MLmodel"

const FlavorPythonFunction = "python_function"

// layout of utc_time_created.
const timeLayout = "2006-01-02 15:04:05.999999"

var ErrInvalidModel = errors.New("invalid MLmodel")

type Signature struct {
	// JSON encoded schema of inputs.
	Inputs string `yaml:"inputs,omitempty"`

	// JSON encoded schema of outputs.
	Outputs string `yaml:"outputs,omitempty"`

	// JSON encoded schema of inference parameters.
	Params string `yaml:"params,omitempty"`
}

// ColumnSpec is an element of column-based signature schema.
type ColumnSpec struct {
	Name     string `json:"name,omitempty"`
	Type     string `json:"type"`
	Required *bool  `json:"required,omitempty"`
}

// Flavor is attributes of a flavor, as written in MLmodel.
type Flavor map[string]any

// String returns the attribute as string.
//
// If the attribute is missing or not a scalar, ok is false.
func (f Flavor) String(key string) (value string, ok bool) {
	v, found := f[key]
	if !found || v == nil {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case int, int64, float64, bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

// Model is a parsed MLmodel.
type Model struct {
	ArtifactPath   string            `yaml:"artifact_path,omitempty"`
	Flavors        map[string]Flavor `yaml:"flavors"`
	ModelUUID      string            `yaml:"model_uuid,omitempty"`
	RunId          string            `yaml:"run_id,omitempty"`
	UTCTimeCreated string            `yaml:"utc_time_created,omitempty"`
	Signature      *Signature        `yaml:"signature,omitempty"`
	MLflowVersion  string            `yaml:"mlflow_version,omitempty"`

	// Dir is the local directory holding the model. Empty unless loaded with Load.
	Dir string `yaml:"-"`
}

// Parse parses content of MLmodel file.
//
// A model without any flavors is rejected with ErrInvalidModel.
func Parse(b []byte) (*Model, error) {
	m := new(Model)
	if err := yaml.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	if len(m.Flavors) == 0 {
		return nil, fmt.Errorf("%w: no flavors", ErrInvalidModel)
	}
	return m, nil
}

// Load reads the MLmodel file in dir.
func Load(dir string) (*Model, error) {
	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	m, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	m.Dir = dir
	return m, nil
}

// Flavor returns attributes of the flavor, if the model has it.
func (m *Model) Flavor(name string) (Flavor, bool) {
	f, ok := m.Flavors[name]
	return f, ok
}

// FlavorNames returns names of flavors in the model.
func (m *Model) FlavorNames() []string {
	names := make([]string, 0, len(m.Flavors))
	for n := range m.Flavors {
		names = append(names, n)
	}
	return names
}

// CreatedAt returns utc_time_created as time.
func (m *Model) CreatedAt() (time.Time, error) {
	return time.ParseInLocation(timeLayout, m.UTCTimeCreated, time.UTC)
}

// Inputs decodes the input schema of the signature.
//
// If the model has no signature, it returns nil without errors.
func (m *Model) Inputs() ([]ColumnSpec, error) {
	if m.Signature == nil {
		return nil, nil
	}
	return decodeSchema(m.Signature.Inputs)
}

// Outputs decodes the output schema of the signature.
//
// If the model has no signature, it returns nil without errors.
func (m *Model) Outputs() ([]ColumnSpec, error) {
	if m.Signature == nil {
		return nil, nil
	}
	return decodeSchema(m.Signature.Outputs)
}

func decodeSchema(s string) ([]ColumnSpec, error) {
	if s == "" {
		return nil, nil
	}
	var cols []ColumnSpec
	if err := json.Unmarshal([]byte(s), &cols); err != nil {
		return nil, fmt.Errorf("%w: malformed signature: %w", ErrInvalidModel, err)
	}
	return cols, nil
}
