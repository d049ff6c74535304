// Package rule parses rule antecedents into expression trees and evaluates
// them against the current inputs with min/max/complement connectives.
package rule

import (
	"fmt"

	"github.com/cognicore/fis/pkg/fis/variable"
)

// Expr is a node of a parsed antecedent.
type Expr interface {
	// Eval returns the input variable the node resolves to. Its Degree is
	// the node's membership degree.
	Eval(vars *variable.Collection) (variable.InputVariable, error)
	String() string
}

// Atom is the equality test "Variable = Value".
type Atom struct {
	Variable string
	Value    string
}

// And is fuzzy conjunction (minimum).
type And struct {
	Left, Right Expr
}

// Or is fuzzy disjunction (maximum).
type Or struct {
	Left, Right Expr
}

// Not is fuzzy negation (complement).
type Not struct {
	Operand Expr
}

func (a Atom) Eval(vars *variable.Collection) (variable.InputVariable, error) {
	return vars.Var(a.Variable, a.Value)
}

func (a Atom) String() string {
	return fmt.Sprintf("%s = %s", a.Variable, a.Value)
}

func (e And) Eval(vars *variable.Collection) (variable.InputVariable, error) {
	l, r, err := evalPair(vars, e.Left, e.Right)
	if err != nil {
		return variable.InputVariable{}, err
	}
	return Min(l, r), nil
}

func (e And) String() string {
	return group(e.Left) + " and " + group(e.Right)
}

func (e Or) Eval(vars *variable.Collection) (variable.InputVariable, error) {
	l, r, err := evalPair(vars, e.Left, e.Right)
	if err != nil {
		return variable.InputVariable{}, err
	}
	return Max(l, r), nil
}

func (e Or) String() string {
	return e.Left.String() + " or " + e.Right.String()
}

func (e Not) Eval(vars *variable.Collection) (variable.InputVariable, error) {
	v, err := e.Operand.Eval(vars)
	if err != nil {
		return variable.InputVariable{}, err
	}
	return Complement(v), nil
}

func (e Not) String() string {
	return "not(" + e.Operand.String() + ")"
}

func evalPair(vars *variable.Collection, left, right Expr) (variable.InputVariable, variable.InputVariable, error) {
	l, err := left.Eval(vars)
	if err != nil {
		return l, l, err
	}
	r, err := right.Eval(vars)
	if err != nil {
		return l, r, err
	}
	return l, r, nil
}

// group parenthesizes disjunctions nested under a conjunction.
func group(e Expr) string {
	if _, ok := e.(Or); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Min returns the operand with the smaller degree; the right one on a tie.
func Min(a, b variable.InputVariable) variable.InputVariable {
	if a.Degree < b.Degree {
		return a
	}
	return b
}

// Max returns the operand with the larger degree; the right one on a tie.
func Max(a, b variable.InputVariable) variable.InputVariable {
	if a.Degree > b.Degree {
		return a
	}
	return b
}

// Complement returns a copy of v with degree 1 - v.Degree.
func Complement(v variable.InputVariable) variable.InputVariable {
	v.Degree = 1 - v.Degree
	return v
}

// Walk calls fn for every atom of e in source order, stopping at the first
// error.
func Walk(e Expr, fn func(Atom) error) error {
	switch n := e.(type) {
	case Atom:
		return fn(n)
	case And:
		if err := Walk(n.Left, fn); err != nil {
			return err
		}
		return Walk(n.Right, fn)
	case Or:
		if err := Walk(n.Left, fn); err != nil {
			return err
		}
		return Walk(n.Right, fn)
	case Not:
		return Walk(n.Operand, fn)
	}
	return fmt.Errorf("unexpected node %T", e)
}
