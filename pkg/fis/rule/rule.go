package rule

import (
	"fmt"
	"strings"

	"github.com/cognicore/fis/pkg/fis/variable"
)

// Rule is an implication "antecedent => output". Evaluating the antecedent
// yields the firing degree used to truncate the output value.
type Rule struct {
	Text   string
	Expr   Expr
	Output *variable.OutputVariable
}

// New parses text and binds the rule to output.
func New(text string, output *variable.OutputVariable) (*Rule, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", text, err)
	}
	return &Rule{Text: strings.TrimSpace(text), Expr: expr, Output: output}, nil
}

// Evaluate returns the rule's firing degree for the current inputs.
func (r *Rule) Evaluate(vars *variable.Collection) (float64, error) {
	v, err := r.Expr.Eval(vars)
	if err != nil {
		return 0, err
	}
	return v.Degree, nil
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s => %s", r.Text, r.Output)
}
