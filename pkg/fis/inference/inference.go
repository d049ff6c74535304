package inference

import (
	"github.com/cognicore/fis/pkg/fis/membership"
	"github.com/cognicore/fis/pkg/fis/rule"
	"github.com/cognicore/fis/pkg/fis/variable"
)

// Engine runs a rule base against the current inputs.
// This interface allows swapping implementations (sequential loop, traced loop, etc.)
type Engine interface {
	// Execute evaluates every rule in order and truncates its output value
	// by the firing degree. Output value functions are modified in place.
	Execute(rules []*rule.Rule, vars *variable.Collection) (Result, error)
}

// Result records what each rule did during one run
type Result struct {
	Firings []Firing
}

// Firing is one rule's contribution to a run
type Firing struct {
	Index  int                 // position in the rule base, from 0
	Rule   string              // rule text as written
	Output string              // "Variable = Value"
	Degree float64             // firing strength
	After  membership.Function // output function after truncation
}

// Degrees returns the firing strengths in rule order.
func (r Result) Degrees() []float64 {
	out := make([]float64, len(r.Firings))
	for i, f := range r.Firings {
		out[i] = f.Degree
	}
	return out
}
