package variable

import (
	"fmt"
	"math"

	"github.com/cognicore/fis/pkg/fis/internalerr"
)

// InputVariable is a variable bound to one of its values, carrying the
// degree to which the current crisp input belongs to that value. It only
// lives for the duration of an expression evaluation.
type InputVariable struct {
	Definition *Definition
	Value      *ValueDefinition
	Input      float64
	Degree     float64
}

func (v InputVariable) String() string {
	if v.Definition == nil || v.Value == nil {
		return fmt.Sprintf("<unbound> (%g)", v.Degree)
	}
	return fmt.Sprintf("%s = %s (%g)", v.Definition.Name, v.Value.Label, v.Degree)
}

// OutputVariable is the consequent of a rule: a variable bound to the value
// whose membership function the rule truncates.
type OutputVariable struct {
	Definition *Definition
	Value      *ValueDefinition
}

// NewOutput binds an output variable to label.
func NewOutput(def *Definition, label string) (*OutputVariable, error) {
	value, ok := def.Value(label)
	if !ok {
		return nil, fmt.Errorf("%s = %s: %w", def.Name, label, internalerr.ErrUnknownValue)
	}
	return &OutputVariable{Definition: def, Value: value}, nil
}

// Truncate clips the bound value's membership function at level. The value
// definition is shared by every rule naming it, so successive truncations
// accumulate.
func (o *OutputVariable) Truncate(level float64) error {
	if math.IsNaN(level) || level < 0 || level > 1 {
		return fmt.Errorf("truncation level %g outside [0, 1]: %w", level, internalerr.ErrInvalidInput)
	}
	o.Value.Function = o.Value.Function.Truncate(level)
	return nil
}

func (o *OutputVariable) String() string {
	return fmt.Sprintf("%s = %s", o.Definition.Name, o.Value.Label)
}
