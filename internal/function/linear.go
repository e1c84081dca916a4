package function

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linear is the affine map f(x) = A·x + b.
//
// Its Jacobian is A and every Hessian is zero, which makes it the reference
// case for finite-difference accuracy: both stencils are exact up to round-off.
type Linear struct {
	name string
	a    *Matrix
	b    []float64
}

// NewLinear creates f(x) = A·x + b. len(b) must equal A.Rows().
func NewLinear(name string, a *Matrix, b []float64) (*Linear, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrInvalidParameter)
	}
	if len(b) != a.Rows() {
		return nil, fmt.Errorf("%w: offset has length %d, want %d", ErrDimensionMismatch, len(b), a.Rows())
	}
	return &Linear{name: name, a: a.Clone(), b: append([]float64(nil), b...)}, nil
}

// InputSize implements Function.
func (l *Linear) InputSize() int { return l.a.Cols() }

// OutputSize implements Function.
func (l *Linear) OutputSize() int { return l.a.Rows() }

// Name implements Function.
func (l *Linear) Name() string { return l.name }

// Evaluate implements Function.
func (l *Linear) Evaluate(result, x []float64) error {
	if err := CheckArgument(l, x); err != nil {
		return err
	}
	if err := CheckResult(l, result); err != nil {
		return err
	}
	if l.a.dense == nil {
		copy(result, l.b)
		return nil
	}
	y := mat.NewVecDense(len(result), result)
	y.MulVec(l.a.dense, mat.NewVecDense(len(x), x))
	floats.Add(result, l.b)
	return nil
}

// Gradient implements Differentiable. The gradient of output i is row i of A.
func (l *Linear) Gradient(grad, x []float64, output int) error {
	if err := CheckArgument(l, x); err != nil {
		return err
	}
	if err := CheckGradient(l, grad); err != nil {
		return err
	}
	if err := CheckOutput(l, output); err != nil {
		return err
	}
	copy(grad, l.a.Row(output))
	return nil
}

// Jacobian implements Differentiable.
func (l *Linear) Jacobian(jac *Matrix, x []float64) error {
	if err := CheckArgument(l, x); err != nil {
		return err
	}
	if err := CheckJacobian(l, jac); err != nil {
		return err
	}
	return jac.CopyFrom(l.a)
}

// Hessian implements TwiceDifferentiable.
func (l *Linear) Hessian(hess *Matrix, x []float64, output int) error {
	if err := CheckArgument(l, x); err != nil {
		return err
	}
	if err := CheckHessian(l, hess); err != nil {
		return err
	}
	if err := CheckOutput(l, output); err != nil {
		return err
	}
	hess.Zero()
	return nil
}

// String implements fmt.Stringer.
func (l *Linear) String() string { return Describe(l) }
