package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/fis/pkg/fis/internalerr"
	"github.com/cognicore/fis/pkg/fis/membership"
	"github.com/cognicore/fis/pkg/fis/variable"
)

func tri(t *testing.T, a, c, b float64) membership.Function {
	t.Helper()
	f, err := membership.NewTriangular(membership.Point{X: a}, membership.Point{X: b}, membership.Point{X: c, Y: 1})
	require.NoError(t, err)
	return f
}

// waterAndAir: Agua=2.5 gives Fria 0.5, Tibia 0; Aire=17.5 gives Frio 0.25, Calido 0.75.
func waterAndAir(t *testing.T) *variable.Collection {
	t.Helper()
	agua, err := variable.NewDefinition("Agua",
		variable.NewValue("Fria", tri(t, 0, 5, 10)),
		variable.NewValue("Tibia", tri(t, 5, 10, 15)),
	)
	require.NoError(t, err)
	aire, err := variable.NewDefinition("Aire",
		variable.NewValue("Frio", tri(t, 0, 10, 20)),
		variable.NewValue("Calido", tri(t, 10, 20, 30)),
	)
	require.NoError(t, err)
	c, err := variable.NewCollection(agua, aire)
	require.NoError(t, err)
	c.AddInput("Agua", 2.5)
	c.AddInput("Aire", 17.5)
	return c
}

func eval(t *testing.T, vars *variable.Collection, src string) float64 {
	t.Helper()
	e, err := Parse(src)
	require.NoError(t, err, src)
	v, err := e.Eval(vars)
	require.NoError(t, err, src)
	return v.Degree
}

func TestParseTrees(t *testing.T) {
	a := Atom{Variable: "A", Value: "B"}
	c := Atom{Variable: "C", Value: "D"}
	e := Atom{Variable: "E", Value: "F"}

	cases := []struct {
		src  string
		want Expr
	}{
		{"A = B", a},
		{"A = B and C = D", And{a, c}},
		{"A = B or C = D", Or{a, c}},
		{"A = B and C = D or E = F", Or{And{a, c}, e}},
		{"A = B or C = D and E = F", Or{a, And{c, e}}},
		{"(A = B or C = D) and E = F", And{Or{a, c}, e}},
		{"not(A = B and C = D)", Not{And{a, c}}},
		{"not (A = B)", Not{a}},
		{"A = B and not(C = D)", And{a, Not{c}}},
		{"((A = B))", a},
		{"A=B and C=D and E=F", And{And{a, c}, e}},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			got, err := Parse(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseUnicodeIdentifiers(t *testing.T) {
	got, err := Parse("Presión = Baja_1")
	require.NoError(t, err)
	assert.Equal(t, Atom{Variable: "Presión", Value: "Baja_1"}, got)
}

func TestIsIdentifier(t *testing.T) {
	for _, s := range []string{"Agua", "_x", "Presión", "Baja_1", "andes", "Not"} {
		assert.True(t, IsIdentifier(s), s)
	}
	for _, s := range []string{"", "and", "or", "not", "1A", "Muy Fria", "A-B", "A=B"} {
		assert.False(t, IsIdentifier(s), s)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"A",
		"A =",
		"A = B and",
		"A = B or or C = D",
		"(A = B",
		"A = B)",
		"not A = B",
		"not(A = B",
		"A == B",
		"A = B & C = D",
		"and = B",
		"1A = B",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			assert.ErrorIs(t, err, internalerr.ErrMalformedExpression)
		})
	}
}

func TestParseErrorReportsOffset(t *testing.T) {
	_, err := Parse("A = B and )")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 10")
}

func TestStringRoundTrip(t *testing.T) {
	for _, src := range []string{
		"A = B",
		"A = B and C = D or E = F",
		"(A = B or C = D) and E = F",
		"not(A = B and C = D) or E = F",
	} {
		e, err := Parse(src)
		require.NoError(t, err)
		assert.Equal(t, src, e.String())

		again, err := Parse(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, again)
	}
}

func TestEvaluateWaterScenario(t *testing.T) {
	vars := waterAndAir(t)

	assert.Equal(t, 0.5, eval(t, vars, "Agua = Fria"))
	assert.Equal(t, 0.0, eval(t, vars, "Agua = Fria and Agua = Tibia"))
	assert.Equal(t, 1.0, eval(t, vars, "not(Agua = Tibia)"))
	assert.Equal(t, 0.5, eval(t, vars, "Agua = Fria or Agua = Tibia"))
}

func TestEvaluatePrecedence(t *testing.T) {
	vars := waterAndAir(t)

	// Fria 0.5, Tibia 0, Frio 0.25, Calido 0.75
	assert.Equal(t, 0.75, eval(t, vars, "Agua = Tibia and Aire = Frio or Aire = Calido"))
	assert.Equal(t, 0.0, eval(t, vars, "Agua = Tibia and (Aire = Frio or Aire = Calido)"))
	assert.Equal(t, 0.5, eval(t, vars, "Aire = Calido and not(Agua = Fria)"))
	assert.Equal(t, 0.75, eval(t, vars, "not(Agua = Fria and Aire = Frio)"))
}

func TestConnectiveLaws(t *testing.T) {
	vars := waterAndAir(t)
	atoms := []string{"Agua = Fria", "Agua = Tibia", "Aire = Frio", "Aire = Calido"}

	for _, x := range atoms {
		assert.Equal(t, eval(t, vars, x), eval(t, vars, "not(not("+x+"))"), "double negation %s", x)
		for _, y := range atoms {
			assert.Equal(t, eval(t, vars, x+" and "+y), eval(t, vars, y+" and "+x), "and commutes")
			assert.Equal(t, eval(t, vars, x+" or "+y), eval(t, vars, y+" or "+x), "or commutes")
			for _, z := range atoms {
				assert.Equal(t,
					eval(t, vars, "("+x+" and "+y+") and "+z),
					eval(t, vars, x+" and ("+y+" and "+z+")"), "and associates")
				assert.Equal(t,
					eval(t, vars, "("+x+" or "+y+") or "+z),
					eval(t, vars, x+" or ("+y+" or "+z+")"), "or associates")
			}
		}
	}
}

func TestConnectivesKeepBinding(t *testing.T) {
	vars := waterAndAir(t)
	fria, err := vars.Var("Agua", "Fria")
	require.NoError(t, err)
	calido, err := vars.Var("Aire", "Calido")
	require.NoError(t, err)

	assert.Equal(t, "Fria", Min(fria, calido).Value.Label)
	assert.Equal(t, "Calido", Max(fria, calido).Value.Label)

	neg := Complement(fria)
	assert.Equal(t, "Fria", neg.Value.Label)
	assert.Equal(t, 0.5, neg.Degree)
	assert.Equal(t, 0.5, fria.Degree, "complement must copy")
}

func TestEvaluateErrorsPropagate(t *testing.T) {
	vars := waterAndAir(t)

	for src, want := range map[string]error{
		"Agua = Fria and Tierra = Seca":   internalerr.ErrUnknownVariable,
		"Agua = Fria or Agua = Hirviendo": internalerr.ErrUnknownValue,
		"not(Fuego = Alto)":               internalerr.ErrUnknownVariable,
	} {
		e, err := Parse(src)
		require.NoError(t, err)
		_, err = e.Eval(vars)
		assert.ErrorIs(t, err, want, src)
	}
}

func TestWalk(t *testing.T) {
	e, err := Parse("not(A = B) and (C = D or E = F)")
	require.NoError(t, err)

	var seen []string
	require.NoError(t, Walk(e, func(a Atom) error {
		seen = append(seen, a.Variable)
		return nil
	}))
	assert.Equal(t, []string{"A", "C", "E"}, seen)

	err = Walk(e, func(a Atom) error {
		if a.Variable == "C" {
			return internalerr.ErrUnknownVariable
		}
		return nil
	})
	assert.ErrorIs(t, err, internalerr.ErrUnknownVariable)
}

func TestRule(t *testing.T) {
	vars := waterAndAir(t)
	potencia, err := variable.NewDefinition("Potencia", variable.NewValue("Alta", tri(t, 0, 50, 100)))
	require.NoError(t, err)
	out, err := variable.NewOutput(potencia, "Alta")
	require.NoError(t, err)

	r, err := New("  Agua = Fria and Aire = Calido ", out)
	require.NoError(t, err)
	assert.Equal(t, "Agua = Fria and Aire = Calido => Potencia = Alta", r.String())

	d, err := r.Evaluate(vars)
	require.NoError(t, err)
	assert.Equal(t, 0.5, d)

	_, err = New("Agua = ", out)
	assert.ErrorIs(t, err, internalerr.ErrMalformedExpression)
}
