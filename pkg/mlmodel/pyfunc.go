package mlmodel

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Env is environment specifications of python_function flavor.
//
// Older MLmodel has only a conda file name as a scalar.
type Env struct {
	Conda      string `yaml:"conda,omitempty"`
	Virtualenv string `yaml:"virtualenv,omitempty"`
}

func (e *Env) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		e.Conda = node.Value
		return nil
	case yaml.MappingNode:
		type plain Env
		return node.Decode((*plain)(e))
	default:
		return fmt.Errorf("line %d: env should be a string or a mapping", node.Line)
	}
}

// PythonFunction is the python_function flavor, which every MLflow model can be loaded as.
type PythonFunction struct {
	LoaderModule  string `yaml:"loader_module"`
	PythonVersion string `yaml:"python_version,omitempty"`
	ModelPath     string `yaml:"model_path,omitempty"`
	Data          string `yaml:"data,omitempty"`
	Code          string `yaml:"code,omitempty"`
	Env           Env    `yaml:"env,omitempty"`
}

// PythonFunction returns the python_function flavor.
//
// ok is false when the model does not have the flavor.
func (m *Model) PythonFunction() (pf PythonFunction, ok bool, err error) {
	f, found := m.Flavor(FlavorPythonFunction)
	if !found {
		return PythonFunction{}, false, nil
	}

	b, err := yaml.Marshal(f)
	if err != nil {
		return PythonFunction{}, true, err
	}
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return PythonFunction{}, true, fmt.Errorf("%w: python_function: %w", ErrInvalidModel, err)
	}
	return pf, true, nil
}
