package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/fis/pkg/fis/internalerr"
	"github.com/cognicore/fis/pkg/fis/membership"
)

func tri(t *testing.T, a, c, b float64) membership.Function {
	t.Helper()
	f, err := membership.NewTriangular(membership.Point{X: a}, membership.Point{X: b}, membership.Point{X: c, Y: 1})
	require.NoError(t, err)
	return f
}

func water(t *testing.T) *Collection {
	t.Helper()
	agua, err := NewDefinition("Agua",
		NewValue("Fria", tri(t, 0, 5, 10)),
		NewValue("Tibia", tri(t, 5, 10, 15)),
	)
	require.NoError(t, err)
	c, err := NewCollection(agua)
	require.NoError(t, err)
	return c
}

func TestDefinitionValueLookup(t *testing.T) {
	c := water(t)
	def, ok := c.Definition("Agua")
	require.True(t, ok)

	v, ok := def.Value("Tibia")
	require.True(t, ok)
	assert.Equal(t, "Tibia", v.Label)

	v, ok = def.Value("Caliente")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestDefinitionDuplicateLabel(t *testing.T) {
	_, err := NewDefinition("Agua",
		NewValue("Fria", tri(t, 0, 5, 10)),
		NewValue("Fria", tri(t, 5, 10, 15)),
	)
	assert.ErrorIs(t, err, internalerr.ErrDuplicate)
}

func TestCollectionDuplicateName(t *testing.T) {
	c := water(t)
	err := c.Add(&Definition{Name: "Agua"})
	assert.ErrorIs(t, err, internalerr.ErrDuplicate)
}

func TestCollectionVar(t *testing.T) {
	c := water(t)
	c.AddInput("Agua", 2.5)

	v, err := c.Var("Agua", "Fria")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v.Degree)
	assert.Equal(t, 2.5, v.Input)
	assert.Equal(t, "Agua = Fria (0.5)", v.String())

	v, err = c.Var("Agua", "Tibia")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Degree)
}

func TestCollectionAddInputUpserts(t *testing.T) {
	c := water(t)
	c.AddInput("Agua", 2.5)
	c.AddInput("Agua", 7.5)

	x, ok := c.Input("Agua")
	require.True(t, ok)
	assert.Equal(t, 7.5, x)
	assert.Equal(t, []string{"Agua"}, c.InputNames())

	in := c.Inputs()
	in["Agua"] = 0
	x, _ = c.Input("Agua")
	assert.Equal(t, 7.5, x, "Inputs must return a copy")
}

func TestCollectionVarErrors(t *testing.T) {
	c := water(t)

	_, err := c.Var("Agua", "Fria")
	assert.ErrorIs(t, err, internalerr.ErrUnknownVariable, "no crisp input set")

	c.AddInput("Agua", 2.5)
	c.AddInput("Aire", 20)

	_, err = c.Var("Aire", "Fria")
	assert.ErrorIs(t, err, internalerr.ErrUnknownVariable, "input without definition")

	_, err = c.Var("Agua", "Hirviendo")
	assert.ErrorIs(t, err, internalerr.ErrUnknownValue)
}

func TestOutputTruncateIsShared(t *testing.T) {
	potencia, err := NewDefinition("Potencia", NewValue("Alta", tri(t, 0, 10, 20)))
	require.NoError(t, err)

	first, err := NewOutput(potencia, "Alta")
	require.NoError(t, err)
	second, err := NewOutput(potencia, "Alta")
	require.NoError(t, err)

	require.NoError(t, first.Truncate(0.8))
	require.NoError(t, second.Truncate(0.5))

	v, _ := potencia.Value("Alta")
	assert.Equal(t, membership.KindTrapezoidal, v.Function.Kind())
	assert.Equal(t, 0.5, v.Function.Evaluate(10))

	potencia.Reset()
	assert.Equal(t, membership.KindTriangular, v.Function.Kind())
	assert.Equal(t, 1.0, v.Function.Evaluate(10))
}

func TestOutputTruncateRejectsBadLevel(t *testing.T) {
	potencia, err := NewDefinition("Potencia", NewValue("Alta", tri(t, 0, 10, 20)))
	require.NoError(t, err)
	out, err := NewOutput(potencia, "Alta")
	require.NoError(t, err)

	assert.ErrorIs(t, out.Truncate(-0.1), internalerr.ErrInvalidInput)
	assert.ErrorIs(t, out.Truncate(1.1), internalerr.ErrInvalidInput)
	assert.Equal(t, "Potencia = Alta", out.String())
}

func TestNewOutputUnknownValue(t *testing.T) {
	potencia, err := NewDefinition("Potencia", NewValue("Alta", tri(t, 0, 10, 20)))
	require.NoError(t, err)
	_, err = NewOutput(potencia, "Baja")
	assert.ErrorIs(t, err, internalerr.ErrUnknownValue)
}
