package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cognicore/fis/pkg/fis/internalerr"
	"github.com/cognicore/fis/pkg/fis/membership"
	"github.com/cognicore/fis/pkg/fis/rule"
	"github.com/cognicore/fis/pkg/fis/variable"
)

// Model is a spec turned into live objects, ready for inference
type Model struct {
	Inputs  *variable.Collection
	Outputs []*variable.Definition
	Rules   []*rule.Rule
	Initial map[string]float64
}

// Output finds an output definition by name
func (m *Model) Output(name string) (*variable.Definition, bool) {
	for _, d := range m.Outputs {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Build validates spec and constructs the variables and rules it describes.
// Every rule naming the same output value shares one ValueDefinition.
// Initial inputs are applied to the returned collection.
func Build(spec *Spec) (*Model, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}

	inputs, err := variable.NewCollection()
	if err != nil {
		return nil, err
	}
	for _, vs := range spec.Inputs {
		def, err := buildDefinition(vs)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", vs.Name, err)
		}
		if err := inputs.Add(def); err != nil {
			return nil, fmt.Errorf("input %s: %w", vs.Name, err)
		}
	}

	m := &Model{Inputs: inputs, Initial: map[string]float64{}}
	for _, vs := range spec.Outputs {
		if _, dup := m.Output(vs.Name); dup {
			return nil, fmt.Errorf("output %s: %w", vs.Name, internalerr.ErrDuplicate)
		}
		def, err := buildDefinition(vs)
		if err != nil {
			return nil, fmt.Errorf("output %s: %w", vs.Name, err)
		}
		m.Outputs = append(m.Outputs, def)
	}

	for i, rs := range spec.Rules {
		r, err := m.buildRule(rs)
		if err != nil {
			if rs.Line > 0 {
				return nil, fmt.Errorf("rule %d (line %d): %w", i+1, rs.Line, err)
			}
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		m.Rules = append(m.Rules, r)
	}

	names := make([]string, 0, len(spec.Initial))
	for name := range spec.Initial {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := inputs.Definition(name); !ok {
			return nil, fmt.Errorf("initial value for %s: %w", name, internalerr.ErrUnknownVariable)
		}
		if x := spec.Initial[name]; math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("initial value for %s = %g: %w", name, x, internalerr.ErrInvalidInput)
		}
		m.Initial[name] = spec.Initial[name]
		inputs.AddInput(name, spec.Initial[name])
	}

	return m, nil
}

func buildDefinition(vs VariableSpec) (*variable.Definition, error) {
	if !rule.IsIdentifier(vs.Name) {
		return nil, fmt.Errorf("name %q cannot appear in a rule: %w", vs.Name, internalerr.ErrInvalidConfig)
	}
	def := &variable.Definition{Name: vs.Name}
	for _, val := range vs.Values {
		if !rule.IsIdentifier(val.Label) {
			return nil, fmt.Errorf("value %q cannot appear in a rule: %w", val.Label, internalerr.ErrInvalidConfig)
		}
		kind, err := membership.ParseKind(val.Shape)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", val.Label, err)
		}
		points := make([]membership.Point, len(val.Points))
		for i, p := range val.Points {
			points[i] = membership.Point{X: p[0], Y: p[1]}
		}
		fn, err := membership.New(kind, points)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", val.Label, err)
		}
		if err := def.AddValue(variable.NewValue(val.Label, fn)); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func (m *Model) buildRule(rs RuleSpec) (*rule.Rule, error) {
	name, label, err := parseConsequent(rs.Then)
	if err != nil {
		return nil, err
	}
	def, ok := m.Output(name)
	if !ok {
		return nil, fmt.Errorf("output %s: %w", name, internalerr.ErrUnknownVariable)
	}
	out, err := variable.NewOutput(def, label)
	if err != nil {
		return nil, err
	}

	r, err := rule.New(rs.If, out)
	if err != nil {
		return nil, err
	}

	// Catch typos now rather than at inference time.
	err = rule.Walk(r.Expr, func(a rule.Atom) error {
		in, ok := m.Inputs.Definition(a.Variable)
		if !ok {
			return fmt.Errorf("%s: %w", a.Variable, internalerr.ErrUnknownVariable)
		}
		if _, ok := in.Value(a.Value); !ok {
			return fmt.Errorf("%s: %w", a, internalerr.ErrUnknownValue)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// parseConsequent splits "Potencia = Baja"
func parseConsequent(s string) (string, string, error) {
	name, label, ok := strings.Cut(s, "=")
	name, label = strings.TrimSpace(name), strings.TrimSpace(label)
	if !ok || name == "" || label == "" || strings.ContainsAny(label, "= ") || strings.ContainsAny(name, " ") {
		return "", "", fmt.Errorf("consequent %q is not 'Variable = Value': %w", s, internalerr.ErrMalformedExpression)
	}
	return name, label, nil
}
