// Package function defines the capability interfaces for mathematical functions
// consumed by the finite-difference engine, plus a few concrete implementations.
//
// Capabilities are orthogonal interfaces rather than a class hierarchy:
//   - Function: dimensions, name and value evaluation
//   - Differentiable: Function + gradient of one output + full Jacobian
//   - TwiceDifferentiable: Differentiable + Hessian of one output
//
// All operations write into caller-provided storage and validate sizes before
// touching it, so a failed call never leaves partial output behind.
//
// Example:
//
//	sq := function.NewFunc("square", 1, 1, func(result, x []float64) {
//	    result[0] = x[0] * x[0]
//	})
//	y, err := function.Value(sq, []float64{3}) // y = [9]
package function

import "fmt"

// Function is the minimal capability: fixed dimensions and value evaluation.
type Function interface {
	// InputSize returns the length of every argument.
	InputSize() int

	// OutputSize returns the length of every result.
	OutputSize() int

	// Name returns a human readable name; it may be empty.
	Name() string

	// Evaluate writes f(x) into result.
	//
	// Returns an error wrapping ErrDimensionMismatch if len(x) != InputSize()
	// or len(result) != OutputSize().
	Evaluate(result, x []float64) error
}

// Differentiable is a Function exposing first derivatives.
type Differentiable interface {
	Function

	// Gradient writes the gradient of output component `output` at x into grad.
	Gradient(grad, x []float64, output int) error

	// Jacobian writes the OutputSize x InputSize Jacobian at x into jac.
	Jacobian(jac *Matrix, x []float64) error
}

// TwiceDifferentiable is a Differentiable function exposing second derivatives.
type TwiceDifferentiable interface {
	Differentiable

	// Hessian writes the InputSize x InputSize Hessian of output component
	// `output` at x into hess.
	Hessian(hess *Matrix, x []float64, output int) error
}

// Value evaluates f at x into a freshly allocated slice.
func Value(f Function, x []float64) ([]float64, error) {
	result := make([]float64, f.OutputSize())
	if err := f.Evaluate(result, x); err != nil {
		return nil, err
	}
	return result, nil
}

// GradientOf computes the gradient of one output into a freshly allocated slice.
func GradientOf(f Differentiable, x []float64, output int) ([]float64, error) {
	grad := make([]float64, f.InputSize())
	if err := f.Gradient(grad, x, output); err != nil {
		return nil, err
	}
	return grad, nil
}

// JacobianOf computes the Jacobian into a freshly allocated matrix.
func JacobianOf(f Differentiable, x []float64) (*Matrix, error) {
	jac := NewMatrix(f.OutputSize(), f.InputSize())
	if err := f.Jacobian(jac, x); err != nil {
		return nil, err
	}
	return jac, nil
}

// Describe renders the display line for f: "name (in -> out)".
// Functions without a name render as "function (in -> out)".
func Describe(f Function) string {
	name := f.Name()
	if name == "" {
		return fmt.Sprintf("function (%d -> %d)", f.InputSize(), f.OutputSize())
	}
	return fmt.Sprintf("%s (%d -> %d)", name, f.InputSize(), f.OutputSize())
}

// JacobianFromGradients assembles a Jacobian row by row from f.Gradient.
// Implementations with no cheaper Jacobian can delegate to it.
func JacobianFromGradients(f Differentiable, jac *Matrix, x []float64) error {
	if err := CheckArgument(f, x); err != nil {
		return err
	}
	if err := CheckJacobian(f, jac); err != nil {
		return err
	}
	for i, nI := 0, f.OutputSize(); i < nI; i++ {
		if err := f.Gradient(jac.Row(i), x, i); err != nil {
			return fmt.Errorf("jacobian row %d: %w", i, err)
		}
	}
	return nil
}
