package membership

import (
	"fmt"

	"github.com/cognicore/fis/pkg/fis/internalerr"
)

// Triangular is a triangle with base points A (left) and B (right) on the
// axis and peak C.
type Triangular struct {
	A, B, C Point
}

// NewTriangular validates the shape: A.X < C.X < B.X, base on the axis,
// peak height in (0, 1].
func NewTriangular(a, b, c Point) (Triangular, error) {
	if err := checkPoints(a, b, c); err != nil {
		return Triangular{}, err
	}
	if err := checkBase(a, b); err != nil {
		return Triangular{}, err
	}
	if c.X <= a.X || c.X >= b.X {
		return Triangular{}, fmt.Errorf("peak x %g outside (%g, %g): %w", c.X, a.X, b.X, internalerr.ErrMalformedFunction)
	}
	if err := checkHeight(c.Y); err != nil {
		return Triangular{}, err
	}
	return Triangular{A: a, B: b, C: c}, nil
}

// Evaluate returns 0 outside the open interval (A.X, B.X) and interpolates
// linearly along the rising and falling edges inside it.
func (t Triangular) Evaluate(x float64) float64 {
	if x <= t.A.X || x >= t.B.X {
		return 0
	}
	if x <= t.C.X {
		return (x - t.A.X) / (t.C.X - t.A.X) * t.C.Y
	}
	return (t.B.X - x) / (t.B.X - t.C.X) * t.C.Y
}

// Truncate clips the triangle at level. A level above the peak leaves it
// unchanged; any other level turns it into a trapezoid. At level 0 the
// plateau collapses onto the base.
func (t Triangular) Truncate(level float64) Function {
	if level > t.C.Y {
		return t
	}
	if level == 0 {
		return Trapezoidal{A: t.A, B: t.B, C: t.A, D: t.B}
	}
	c, d := t.crossings(level)
	return Trapezoidal{A: t.A, B: t.B, C: c, D: d}
}

// crossings returns the points where the rising and falling edges reach
// level. level must be in (0, C.Y].
func (t Triangular) crossings(level float64) (Point, Point) {
	rise := Point{X: level*(t.C.X-t.A.X)/t.C.Y + t.A.X, Y: level}
	fall := Point{X: t.B.X - level*(t.B.X-t.C.X)/t.C.Y, Y: level}
	return rise, fall
}

func (t Triangular) Kind() Kind { return KindTriangular }

func (t Triangular) Points() []Point { return []Point{t.A, t.B, t.C} }

func (t Triangular) String() string {
	return fmt.Sprintf("triangular(a=%s b=%s c=%s)", t.A, t.B, t.C)
}

func (Triangular) sealed() {}
