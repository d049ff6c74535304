package variable

import (
	"fmt"
	"sort"

	"github.com/cognicore/fis/pkg/fis/internalerr"
)

// Collection holds the input variable definitions together with the crisp
// value currently set for each of them.
type Collection struct {
	defs   []*Definition
	inputs map[string]float64
}

// NewCollection creates a collection from definitions with unique names.
func NewCollection(defs ...*Definition) (*Collection, error) {
	c := &Collection{inputs: make(map[string]float64)}
	for _, d := range defs {
		if err := c.Add(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers a definition.
func (c *Collection) Add(d *Definition) error {
	if _, ok := c.Definition(d.Name); ok {
		return fmt.Errorf("variable %s: %w", d.Name, internalerr.ErrDuplicate)
	}
	c.defs = append(c.defs, d)
	return nil
}

// Definitions returns the registered definitions in insertion order.
func (c *Collection) Definitions() []*Definition {
	return c.defs
}

// Definition finds a definition by name.
func (c *Collection) Definition(name string) (*Definition, bool) {
	for _, d := range c.defs {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// AddInput sets (or replaces) the crisp input for a variable.
func (c *Collection) AddInput(name string, x float64) {
	if c.inputs == nil {
		c.inputs = make(map[string]float64)
	}
	c.inputs[name] = x
}

// Input returns the crisp input set for name.
func (c *Collection) Input(name string) (float64, bool) {
	x, ok := c.inputs[name]
	return x, ok
}

// Inputs returns a copy of the current crisp inputs.
func (c *Collection) Inputs() map[string]float64 {
	out := make(map[string]float64, len(c.inputs))
	for k, v := range c.inputs {
		out[k] = v
	}
	return out
}

// InputNames returns the names with a crisp input, sorted.
func (c *Collection) InputNames() []string {
	names := make([]string, 0, len(c.inputs))
	for k := range c.inputs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Var binds variable name to value label and evaluates the value's
// membership function at the variable's crisp input.
func (c *Collection) Var(name, label string) (InputVariable, error) {
	def, ok := c.Definition(name)
	if !ok {
		return InputVariable{}, fmt.Errorf("%s: %w", name, internalerr.ErrUnknownVariable)
	}
	x, ok := c.inputs[name]
	if !ok {
		return InputVariable{}, fmt.Errorf("%s has no input value: %w", name, internalerr.ErrUnknownVariable)
	}
	value, ok := def.Value(label)
	if !ok {
		return InputVariable{}, fmt.Errorf("%s = %s: %w", name, label, internalerr.ErrUnknownValue)
	}
	return InputVariable{
		Definition: def,
		Value:      value,
		Input:      x,
		Degree:     value.Function.Evaluate(x),
	}, nil
}
