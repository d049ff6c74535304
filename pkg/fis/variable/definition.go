// Package variable models linguistic variables: their named values, the
// crisp inputs bound to them, and the input/output views used by rules.
package variable

import (
	"fmt"
	"strings"

	"github.com/cognicore/fis/pkg/fis/internalerr"
	"github.com/cognicore/fis/pkg/fis/membership"
)

// ValueDefinition is a linguistic value ("Cold", "Warm") and its current
// membership function. Output values have their function replaced by
// truncation during inference.
type ValueDefinition struct {
	Label    string
	Function membership.Function

	initial membership.Function
}

// NewValue creates a value definition that remembers fn so Reset can
// restore it.
func NewValue(label string, fn membership.Function) *ValueDefinition {
	return &ValueDefinition{Label: label, Function: fn, initial: fn}
}

// Reset restores the function the value was created with.
func (v *ValueDefinition) Reset() {
	if v.initial != nil {
		v.Function = v.initial
	}
}

func (v *ValueDefinition) String() string {
	return fmt.Sprintf("%s: %s", v.Label, v.Function)
}

// Definition is a named linguistic variable with an ordered set of values.
type Definition struct {
	Name   string
	Values []*ValueDefinition
}

// NewDefinition creates a definition, rejecting duplicate value labels.
func NewDefinition(name string, values ...*ValueDefinition) (*Definition, error) {
	d := &Definition{Name: name}
	for _, v := range values {
		if err := d.AddValue(v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// AddValue appends a value. Labels are unique within a definition.
func (d *Definition) AddValue(v *ValueDefinition) error {
	if _, ok := d.Value(v.Label); ok {
		return fmt.Errorf("variable %s value %s: %w", d.Name, v.Label, internalerr.ErrDuplicate)
	}
	d.Values = append(d.Values, v)
	return nil
}

// Value looks up a value by label. Absence is reported through ok.
func (d *Definition) Value(label string) (*ValueDefinition, bool) {
	for _, v := range d.Values {
		if v.Label == label {
			return v, true
		}
	}
	return nil, false
}

// Reset restores every value's original function.
func (d *Definition) Reset() {
	for _, v := range d.Values {
		v.Reset()
	}
}

func (d *Definition) String() string {
	labels := make([]string, len(d.Values))
	for i, v := range d.Values {
		labels[i] = v.Label
	}
	return fmt.Sprintf("%s [%s]", d.Name, strings.Join(labels, ", "))
}
