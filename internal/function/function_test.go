package function_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/numdiff/internal/function"
)

func square() *function.Func {
	return function.NewFunc("square", 1, 1, func(result, x []float64) {
		result[0] = x[0] * x[0]
	})
}

func TestFunc_Evaluate(t *testing.T) {
	y, err := function.Value(square(), []float64{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, y)
}

func TestFunc_DimensionMismatch(t *testing.T) {
	f := square()

	result := []float64{-1}
	err := f.Evaluate(result, []float64{1, 2})
	require.ErrorIs(t, err, function.ErrDimensionMismatch)
	assert.Equal(t, []float64{-1}, result, "result must not be written on failure")

	err = f.Evaluate(make([]float64, 2), []float64{1})
	require.ErrorIs(t, err, function.ErrDimensionMismatch)
}

func TestDifferentiableFunc_Jacobian(t *testing.T) {
	// f(x, y) = (x*y, x+y)
	f := function.NewDifferentiableFunc("pair", 2, 2,
		func(result, x []float64) {
			result[0] = x[0] * x[1]
			result[1] = x[0] + x[1]
		},
		func(grad, x []float64, output int) {
			if output == 0 {
				grad[0], grad[1] = x[1], x[0]
				return
			}
			grad[0], grad[1] = 1, 1
		},
	)

	jac, err := function.JacobianOf(f, []float64{2, 5})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 2}, jac.Row(0))
	assert.Equal(t, []float64{1, 1}, jac.Row(1))

	_, err = function.GradientOf(f, []float64{2, 5}, 2)
	require.ErrorIs(t, err, function.ErrInvalidParameter)

	err = f.Jacobian(function.NewMatrix(2, 3), []float64{2, 5})
	require.ErrorIs(t, err, function.ErrDimensionMismatch)
}

func TestLinear(t *testing.T) {
	a, err := function.NewMatrixFromRows([][]float64{{1, 2, 3}, {-1, 0, 4}})
	require.NoError(t, err)

	l, err := function.NewLinear("affine", a, []float64{10, 20})
	require.NoError(t, err)
	assert.Equal(t, 3, l.InputSize())
	assert.Equal(t, 2, l.OutputSize())

	y, err := function.Value(l, []float64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{16, 23}, y)

	g, err := function.GradientOf(l, []float64{7, 8, 9}, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 4}, g)

	hess := function.NewMatrix(3, 3)
	hess.Set(0, 0, 42)
	require.NoError(t, l.Hessian(hess, []float64{0, 0, 0}, 0))
	assert.Equal(t, 0.0, hess.At(0, 0))

	_, err = function.NewLinear("bad", a, []float64{1})
	require.ErrorIs(t, err, function.ErrDimensionMismatch)
}

func TestQuadratic(t *testing.T) {
	// A is deliberately non-symmetric: only its symmetric part matters.
	a, err := function.NewMatrixFromRows([][]float64{{2, 1}, {3, 4}})
	require.NoError(t, err)
	q, err := function.NewQuadratic("q", a, []float64{1, -1}, 0.5)
	require.NoError(t, err)

	x := []float64{1, 2}
	y, err := function.Value(q, x)
	require.NoError(t, err)
	// ½(2·1 + 1·2 + 3·2 + 4·4) + (1 - 2) + 0.5 = 13 - 1 + 0.5
	assert.InDelta(t, 12.5, y[0], 1e-12)

	g, err := function.GradientOf(q, x, 0)
	require.NoError(t, err)
	// sym = [[2, 2], [2, 4]]; sym·x + b = (6, 10) + (1, -1)
	assert.InDeltaSlice(t, []float64{7, 9}, g, 1e-12)

	hess := function.NewMatrix(2, 2)
	require.NoError(t, q.Hessian(hess, x, 0))
	assert.Equal(t, 2.0, hess.At(0, 1))
	assert.Equal(t, 2.0, hess.At(1, 0))
}

func TestNullQuadratic(t *testing.T) {
	null := function.NewNullQuadratic("null function", 1)
	noTitle := function.NewNullQuadratic("", 1)

	assert.Equal(t, "null function (1 -> 1)", null.String())
	assert.Equal(t, "function (1 -> 1)", noTitle.String())

	x := []float64{42}
	for _, q := range []*function.Quadratic{null, noTitle} {
		g, err := function.GradientOf(q, x, 0)
		require.NoError(t, err)
		assert.Equal(t, []float64{0}, g)

		hess := function.NewMatrix(1, 1)
		require.NoError(t, q.Hessian(hess, x, 0))
		assert.Equal(t, 0.0, hess.At(0, 0))
	}
}

func TestMatrix(t *testing.T) {
	m := function.NewMatrix(2, 3)
	m.Set(1, 2, 5)
	m.SetCol(0, []float64{7, 8})
	assert.Equal(t, []float64{7, 0, 0}, m.Row(0))
	assert.Equal(t, []float64{8, 0, 5}, m.Row(1))
	assert.Equal(t, "[2,3]((7,0,0),(8,0,5))", m.String())

	c := m.Clone()
	m.Zero()
	assert.Equal(t, 5.0, c.At(1, 2))
	assert.Equal(t, 0.0, m.At(1, 2))

	assert.Panics(t, func() { m.At(2, 0) })
	require.ErrorIs(t, m.CopyFrom(function.NewMatrix(3, 2)), function.ErrDimensionMismatch)

	empty := function.NewMatrix(0, 4)
	assert.Equal(t, 0, empty.Rows())
	assert.Equal(t, 4, empty.Cols())

	_, err := function.NewMatrixFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, function.ErrDimensionMismatch)
}

func TestMatrix_Dense(t *testing.T) {
	m, err := function.NewMatrixFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	d := m.Dense()
	require.NotNil(t, d)
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)

	// Writes in either direction share storage.
	d.Set(0, 1, -2)
	assert.Equal(t, -2.0, m.At(0, 1))
	m.Set(1, 0, 9)
	assert.Equal(t, 9.0, d.At(1, 0))

	row := m.Row(1)
	row[1] = 6
	assert.Equal(t, 6.0, d.At(1, 1))

	c2 := m.Clone()
	d.Zero()
	assert.Equal(t, 9.0, c2.At(1, 0))

	for _, empty := range []*function.Matrix{function.NewMatrix(0, 3), function.NewMatrix(3, 0), function.NewMatrix(-1, -1)} {
		assert.Nil(t, empty.Dense())
		assert.NotPanics(t, func() {
			empty.Zero()
			require.NoError(t, empty.CopyFrom(empty.Clone()))
			_ = empty.String()
		})
	}
	assert.Empty(t, function.NewMatrix(2, 0).Row(1))
}

func TestCheckStep(t *testing.T) {
	require.NoError(t, function.CheckStep(1e-8))
	for _, eps := range []float64{0, -1e-8} {
		require.ErrorIs(t, function.CheckStep(eps), function.ErrInvalidParameter)
	}
}
