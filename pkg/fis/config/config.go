package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/fis/pkg/fis/internalerr"
)

// Spec is the declarative description of a fuzzy inference system, as read
// from either the text format or YAML.
type Spec struct {
	Inputs  []VariableSpec     `yaml:"inputs" validate:"required,min=1,dive"`
	Outputs []VariableSpec     `yaml:"outputs" validate:"required,min=1,dive"`
	Rules   []RuleSpec         `yaml:"rules" validate:"dive"`
	Initial map[string]float64 `yaml:"initial"`
}

// VariableSpec describes a linguistic variable and its values
type VariableSpec struct {
	Name   string      `yaml:"name" validate:"required"`
	Values []ValueSpec `yaml:"values" validate:"required,min=1,dive"`
}

// ValueSpec describes one linguistic value.
// Points are given in a, b, c[, d] order: the two base points, then the peak
// (triangular) or the plateau ends (trapezoidal).
type ValueSpec struct {
	Label  string       `yaml:"label" validate:"required"`
	Shape  string       `yaml:"shape" validate:"required"`
	Points [][2]float64 `yaml:"points" validate:"min=3,max=4"`
}

// RuleSpec is "if <antecedent> then <Variable> = <Value>"
type RuleSpec struct {
	If   string `yaml:"if" validate:"required"`
	Then string `yaml:"then" validate:"required"`
	Line int    `yaml:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural requirements of a spec
func Validate(spec *Spec) error {
	if err := validate.Struct(spec); err != nil {
		return fmt.Errorf("validate spec: %w: %w", internalerr.ErrInvalidConfig, err)
	}
	return nil
}

// LoadSpecYAML loads a spec from a YAML file
func LoadSpecYAML(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, internalerr.ErrInvalidConfig, err)
	}

	return &spec, nil
}

// LoadInputs loads crisp input values from a YAML mapping of name to value
func LoadInputs(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	inputs := map[string]float64{}
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, internalerr.ErrInvalidConfig, err)
	}

	return inputs, nil
}
