package function

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Quadratic is the scalar function f(x) = ½ xᵀAx + bᵀx + c.
//
// Gradient: ½(A + Aᵀ)x + b. Hessian: ½(A + Aᵀ).
type Quadratic struct {
	name string
	a    *Matrix
	b    []float64
	c    float64
	sym  *Matrix // ½(A + Aᵀ)
}

// NewQuadratic creates a quadratic form. A must be square and len(b) == A.Rows().
func NewQuadratic(name string, a *Matrix, b []float64, c float64) (*Quadratic, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrInvalidParameter)
	}
	if a.Rows() != a.Cols() {
		return nil, fmt.Errorf("%w: quadratic term is %dx%d, want square", ErrDimensionMismatch, a.Rows(), a.Cols())
	}
	if len(b) != a.Rows() {
		return nil, fmt.Errorf("%w: linear term has length %d, want %d", ErrDimensionMismatch, len(b), a.Rows())
	}
	n := a.Rows()
	sym := NewMatrix(n, n)
	if n > 0 {
		sym.dense.Add(a.dense, a.dense.T())
		sym.dense.Scale(0.5, sym.dense)
	}
	return &Quadratic{name: name, a: a.Clone(), b: append([]float64(nil), b...), c: c, sym: sym}, nil
}

// NewNullQuadratic returns the n-dimensional quadratic whose value, gradient
// and Hessian are identically zero.
func NewNullQuadratic(name string, n int) *Quadratic {
	q, _ := NewQuadratic(name, NewMatrix(n, n), make([]float64, n), 0)
	return q
}

// InputSize implements Function.
func (q *Quadratic) InputSize() int { return q.a.Rows() }

// OutputSize implements Function. Quadratic functions are scalar.
func (q *Quadratic) OutputSize() int { return 1 }

// Name implements Function.
func (q *Quadratic) Name() string { return q.name }

// Evaluate implements Function.
func (q *Quadratic) Evaluate(result, x []float64) error {
	if err := CheckArgument(q, x); err != nil {
		return err
	}
	if err := CheckResult(q, result); err != nil {
		return err
	}
	v := q.c
	if len(x) > 0 {
		xv := mat.NewVecDense(len(x), x)
		v += 0.5*mat.Inner(xv, q.a.dense, xv) + floats.Dot(q.b, x)
	}
	result[0] = v
	return nil
}

// Gradient implements Differentiable.
func (q *Quadratic) Gradient(grad, x []float64, output int) error {
	if err := CheckArgument(q, x); err != nil {
		return err
	}
	if err := CheckGradient(q, grad); err != nil {
		return err
	}
	if err := CheckOutput(q, output); err != nil {
		return err
	}
	if len(grad) == 0 {
		return nil
	}
	g := mat.NewVecDense(len(grad), grad)
	g.MulVec(q.sym.dense, mat.NewVecDense(len(x), x))
	floats.Add(grad, q.b)
	return nil
}

// Jacobian implements Differentiable.
func (q *Quadratic) Jacobian(jac *Matrix, x []float64) error {
	return JacobianFromGradients(q, jac, x)
}

// Hessian implements TwiceDifferentiable.
func (q *Quadratic) Hessian(hess *Matrix, x []float64, output int) error {
	if err := CheckArgument(q, x); err != nil {
		return err
	}
	if err := CheckHessian(q, hess); err != nil {
		return err
	}
	if err := CheckOutput(q, output); err != nil {
		return err
	}
	return hess.CopyFrom(q.sym)
}

// String implements fmt.Stringer.
func (q *Quadratic) String() string { return Describe(q) }
