// Package membership implements the piecewise-linear membership functions
// used by the inference engine: degree evaluation and superior truncation.
package membership

import (
	"fmt"
	"math"
	"strings"

	"github.com/cognicore/fis/pkg/fis/internalerr"
)

// Point is a coordinate on the membership plane: X on the variable axis,
// Y the membership degree.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Kind names a membership function shape.
type Kind string

const (
	KindTriangular  Kind = "triangular"
	KindTrapezoidal Kind = "trapezoidal"
)

// ParseKind resolves a shape name, accepting common short forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "triangular", "triangle", "tri":
		return KindTriangular, nil
	case "trapezoidal", "trapezoid", "trap":
		return KindTrapezoidal, nil
	}
	return "", fmt.Errorf("shape %q: %w", s, internalerr.ErrMalformedFunction)
}

// Function is a membership function. The set of implementations is closed:
// Triangular and Trapezoidal.
type Function interface {
	// Evaluate returns the membership degree of x.
	Evaluate(x float64) float64

	// Truncate clips the function from above at level. The receiver is
	// left untouched; the clipped function is returned.
	Truncate(level float64) Function

	Kind() Kind

	// Points returns the defining points in constructor order.
	Points() []Point

	String() string

	sealed()
}

// New builds a validated function of the given kind from its defining
// points: a, b, c for triangular and a, b, c, d for trapezoidal.
func New(kind Kind, points []Point) (Function, error) {
	switch kind {
	case KindTriangular:
		if len(points) != 3 {
			return nil, fmt.Errorf("triangular needs 3 points, got %d: %w", len(points), internalerr.ErrMalformedFunction)
		}
		return NewTriangular(points[0], points[1], points[2])
	case KindTrapezoidal:
		if len(points) != 4 {
			return nil, fmt.Errorf("trapezoidal needs 4 points, got %d: %w", len(points), internalerr.ErrMalformedFunction)
		}
		return NewTrapezoidal(points[0], points[1], points[2], points[3])
	}
	return nil, fmt.Errorf("shape %q: %w", kind, internalerr.ErrMalformedFunction)
}

// FromPoints rebuilds a function from a snapshot without shape checks.
// Truncated functions may be degenerate (a zero-width rising edge after a
// truncation at zero), so New would reject them.
func FromPoints(kind Kind, points []Point) (Function, error) {
	switch {
	case kind == KindTriangular && len(points) == 3:
		return Triangular{A: points[0], B: points[1], C: points[2]}, nil
	case kind == KindTrapezoidal && len(points) == 4:
		return Trapezoidal{A: points[0], B: points[1], C: points[2], D: points[3]}, nil
	}
	return nil, fmt.Errorf("snapshot %s with %d points: %w", kind, len(points), internalerr.ErrMalformedFunction)
}

// Equal reports whether two functions have the same kind and points.
func Equal(f, g Function) bool {
	if f == nil || g == nil {
		return f == nil && g == nil
	}
	if f.Kind() != g.Kind() {
		return false
	}
	fp, gp := f.Points(), g.Points()
	if len(fp) != len(gp) {
		return false
	}
	for i := range fp {
		if fp[i] != gp[i] {
			return false
		}
	}
	return true
}

func checkPoints(points ...Point) error {
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("point %s is not finite: %w", p, internalerr.ErrMalformedFunction)
		}
	}
	return nil
}

func checkBase(a, b Point) error {
	if a.Y != 0 || b.Y != 0 {
		return fmt.Errorf("base points %s %s must lie on the axis: %w", a, b, internalerr.ErrMalformedFunction)
	}
	if a.X >= b.X {
		return fmt.Errorf("empty support [%g, %g]: %w", a.X, b.X, internalerr.ErrMalformedFunction)
	}
	return nil
}

func checkHeight(h float64) error {
	if h <= 0 || h > 1 {
		return fmt.Errorf("height %g outside (0, 1]: %w", h, internalerr.ErrMalformedFunction)
	}
	return nil
}
