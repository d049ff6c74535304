package membership

import (
	"fmt"

	"github.com/cognicore/fis/pkg/fis/internalerr"
)

// Trapezoidal is a trapezoid with base points A and B on the axis and a
// plateau from C to D at height C.Y.
type Trapezoidal struct {
	A, B, C, D Point
}

// NewTrapezoidal validates the shape: A.X < C.X <= D.X < B.X, base on the
// axis, flat plateau with height in (0, 1].
func NewTrapezoidal(a, b, c, d Point) (Trapezoidal, error) {
	if err := checkPoints(a, b, c, d); err != nil {
		return Trapezoidal{}, err
	}
	if err := checkBase(a, b); err != nil {
		return Trapezoidal{}, err
	}
	if !(a.X < c.X && c.X <= d.X && d.X < b.X) {
		return Trapezoidal{}, fmt.Errorf("plateau [%g, %g] outside (%g, %g): %w", c.X, d.X, a.X, b.X, internalerr.ErrMalformedFunction)
	}
	if c.Y != d.Y {
		return Trapezoidal{}, fmt.Errorf("plateau not flat (%g != %g): %w", c.Y, d.Y, internalerr.ErrMalformedFunction)
	}
	if err := checkHeight(c.Y); err != nil {
		return Trapezoidal{}, err
	}
	return Trapezoidal{A: a, B: b, C: c, D: d}, nil
}

// rising is the synthetic triangle covering the left edge.
func (t Trapezoidal) rising() Triangular {
	return Triangular{A: t.A, B: Point{X: t.C.X}, C: t.C}
}

// falling is the synthetic triangle covering the right edge.
func (t Trapezoidal) falling() Triangular {
	return Triangular{A: Point{X: t.D.X}, B: t.B, C: t.D}
}

// Evaluate returns 0 outside (A.X, B.X), the plateau height on [C.X, D.X]
// and the edge triangles' degree elsewhere.
func (t Trapezoidal) Evaluate(x float64) float64 {
	switch {
	case x <= t.A.X || x >= t.B.X:
		return 0
	case x < t.C.X:
		return t.rising().Evaluate(x)
	case x <= t.D.X:
		return t.C.Y
	default:
		return t.falling().Evaluate(x)
	}
}

// Truncate lowers the plateau to level. Levels at or above the plateau and
// level 0 leave the trapezoid unchanged, so truncating twice at the same
// level returns the first result exactly.
func (t Trapezoidal) Truncate(level float64) Function {
	if level >= t.C.Y || level == 0 {
		return t
	}
	c, _ := t.rising().crossings(level)
	_, d := t.falling().crossings(level)
	return Trapezoidal{A: t.A, B: t.B, C: c, D: d}
}

func (t Trapezoidal) Kind() Kind { return KindTrapezoidal }

func (t Trapezoidal) Points() []Point { return []Point{t.A, t.B, t.C, t.D} }

func (t Trapezoidal) String() string {
	return fmt.Sprintf("trapezoidal(a=%s b=%s c=%s d=%s)", t.A, t.B, t.C, t.D)
}

func (Trapezoidal) sealed() {}
