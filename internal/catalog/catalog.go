// Package catalog provides named analytic test functions with hand-written
// derivatives, used to exercise the derivative checker.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/born-ml/numdiff/internal/function"
)

// ErrUnknownFunction is returned by Lookup for names not in the catalogue.
var ErrUnknownFunction = errors.New("catalog: unknown function")

// BrokenOffset is the error added to component 0 of the broken-rosenbrock gradient.
const BrokenOffset = 1e-2

// Entry describes one catalogue function.
type Entry struct {
	Name         string
	Description  string
	MinDimension int
	build        func(n int) (function.Differentiable, error)
}

var entries = []Entry{
	{Name: "rosenbrock", Description: "extended Rosenbrock valley, R^n -> R", MinDimension: 2, build: rosenbrock(0)},
	{Name: "broken-rosenbrock", Description: "rosenbrock with a wrong gradient component", MinDimension: 2, build: rosenbrock(BrokenOffset)},
	{Name: "sphere", Description: "sum of squares, R^n -> R", MinDimension: 1, build: sphere},
	{Name: "exp-sum", Description: "sum of exponentials, R^n -> R", MinDimension: 1, build: expSum},
	{Name: "trig", Description: "sin(x_i)*cos(x_i+1) cyclic map, R^n -> R^n", MinDimension: 1, build: trig},
	{Name: "linear", Description: "identity plus shift, R^n -> R^n", MinDimension: 1, build: linear},
	{Name: "quadratic", Description: "tridiagonal quadratic form, R^n -> R", MinDimension: 1, build: quadratic},
}

// Names lists the catalogue in a stable order.
func Names() []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	slices.Sort(names)
	return names
}

// Entries returns a copy of the catalogue sorted by name.
func Entries() []Entry {
	out := slices.Clone(entries)
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Lookup builds the named function in dimension n.
func Lookup(name string, n int) (function.Differentiable, error) {
	for _, e := range entries {
		if e.Name != name {
			continue
		}
		if n < e.MinDimension {
			return nil, fmt.Errorf("%w: %s needs dimension >= %d, got %d",
				function.ErrInvalidParameter, name, e.MinDimension, n)
		}
		return e.build(n)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
}

func rosenbrock(offset float64) func(n int) (function.Differentiable, error) {
	name := "rosenbrock"
	if offset != 0 {
		name = "broken-rosenbrock"
	}
	return func(n int) (function.Differentiable, error) {
		return function.NewDifferentiableFunc(name, n, 1,
			func(result, x []float64) {
				s := 0.0
				for i, nI := 0, n-1; i < nI; i++ {
					a := x[i+1] - x[i]*x[i]
					b := 1 - x[i]
					s += 100*a*a + b*b
				}
				result[0] = s
			},
			func(grad, x []float64, _ int) {
				clear(grad)
				for i, nI := 0, n-1; i < nI; i++ {
					a := x[i+1] - x[i]*x[i]
					grad[i] += -400*x[i]*a - 2*(1-x[i])
					grad[i+1] += 200 * a
				}
				grad[0] += offset
			},
		), nil
	}
}

func sphere(n int) (function.Differentiable, error) {
	return function.NewDifferentiableFunc("sphere", n, 1,
		func(result, x []float64) {
			s := 0.0
			for _, v := range x {
				s += v * v
			}
			result[0] = s
		},
		func(grad, x []float64, _ int) {
			for i, v := range x {
				grad[i] = 2 * v
			}
		},
	), nil
}

func expSum(n int) (function.Differentiable, error) {
	return function.NewDifferentiableFunc("exp-sum", n, 1,
		func(result, x []float64) {
			s := 0.0
			for _, v := range x {
				s += math.Exp(v)
			}
			result[0] = s
		},
		func(grad, x []float64, _ int) {
			for i, v := range x {
				grad[i] = math.Exp(v)
			}
		},
	), nil
}

// trig maps x to f_i = sin(x_i)·cos(x_{(i+1) mod n}).
func trig(n int) (function.Differentiable, error) {
	return function.NewDifferentiableFunc("trig", n, n,
		func(result, x []float64) {
			for i, nI := 0, n; i < nI; i++ {
				result[i] = math.Sin(x[i]) * math.Cos(x[(i+1)%n])
			}
		},
		func(grad, x []float64, output int) {
			clear(grad)
			i, j := output, (output+1)%n
			grad[i] += math.Cos(x[i]) * math.Cos(x[j])
			grad[j] -= math.Sin(x[i]) * math.Sin(x[j])
		},
	), nil
}

func linear(n int) (function.Differentiable, error) {
	a := function.NewMatrix(n, n)
	b := make([]float64, n)
	for i, nI := 0, n; i < nI; i++ {
		a.Set(i, i, 1)
		b[i] = float64(i + 1)
	}
	l, err := function.NewLinear("linear", a, b)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// quadratic is ½xᵀAx + bᵀx with A = tridiag(-1, 4, -1) and b_i = 1.
func quadratic(n int) (function.Differentiable, error) {
	a := function.NewMatrix(n, n)
	b := make([]float64, n)
	for i, nI := 0, n; i < nI; i++ {
		a.Set(i, i, 4)
		if i > 0 {
			a.Set(i, i-1, -1)
			a.Set(i-1, i, -1)
		}
		b[i] = 1
	}
	q, err := function.NewQuadratic("quadratic", a, b, 0)
	if err != nil {
		return nil, err
	}
	return q, nil
}
