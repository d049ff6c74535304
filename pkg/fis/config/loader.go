package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cognicore/fis/pkg/fis/internalerr"
)

// Loader loads a spec file and optional input overrides and constructs the model
type Loader struct {
	SpecPath   string             // .yaml/.yml for YAML, anything else for the text format
	InputsPath string             // optional YAML mapping of crisp inputs, overrides the spec's initial values
	Inputs     map[string]float64 // optional, applied last
}

// Load reads all configured files and returns the built model
func (l *Loader) Load() (*Model, error) {
	if l.SpecPath == "" {
		return nil, fmt.Errorf("load spec: no path: %w", internalerr.ErrInvalidConfig)
	}

	spec, err := LoadSpec(l.SpecPath)
	if err != nil {
		return nil, fmt.Errorf("load spec: %w", err)
	}

	if spec.Initial == nil {
		spec.Initial = map[string]float64{}
	}

	// Load input overrides
	if l.InputsPath != "" {
		inputs, err := LoadInputs(l.InputsPath)
		if err != nil {
			return nil, fmt.Errorf("load inputs: %w", err)
		}
		for name, x := range inputs {
			spec.Initial[name] = x
		}
	}
	for name, x := range l.Inputs {
		spec.Initial[name] = x
	}

	model, err := Build(spec)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", l.SpecPath, err)
	}
	return model, nil
}

// LoadSpec reads a spec file, choosing the format by extension
func LoadSpec(path string) (*Spec, error) {
	if IsYAML(path) {
		return LoadSpecYAML(path)
	}
	return LoadText(path)
}

// IsYAML reports whether path names a YAML spec
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
