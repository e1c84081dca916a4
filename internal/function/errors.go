package function

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors shared by every function implementation.
var (
	// ErrDimensionMismatch is returned when an argument, result, gradient or
	// matrix does not have the size declared by the function.
	ErrDimensionMismatch = errors.New("function: dimension mismatch")

	// ErrInvalidParameter is returned for out-of-range indices and invalid
	// numeric parameters (non-positive step, negative threshold, ...).
	ErrInvalidParameter = errors.New("function: invalid parameter")
)

// CheckArgument validates len(x) against f.InputSize().
func CheckArgument(f Function, x []float64) error {
	if len(x) != f.InputSize() {
		return fmt.Errorf("%w: argument has length %d, want %d", ErrDimensionMismatch, len(x), f.InputSize())
	}
	return nil
}

// CheckResult validates len(result) against f.OutputSize().
func CheckResult(f Function, result []float64) error {
	if len(result) != f.OutputSize() {
		return fmt.Errorf("%w: result has length %d, want %d", ErrDimensionMismatch, len(result), f.OutputSize())
	}
	return nil
}

// CheckGradient validates len(grad) against f.InputSize().
func CheckGradient(f Function, grad []float64) error {
	if len(grad) != f.InputSize() {
		return fmt.Errorf("%w: gradient has length %d, want %d", ErrDimensionMismatch, len(grad), f.InputSize())
	}
	return nil
}

// CheckOutput validates 0 <= output < f.OutputSize().
func CheckOutput(f Function, output int) error {
	if output < 0 || output >= f.OutputSize() {
		return fmt.Errorf("%w: output index %d out of range [0, %d)", ErrInvalidParameter, output, f.OutputSize())
	}
	return nil
}

// CheckColumn validates 0 <= col < f.InputSize().
func CheckColumn(f Function, col int) error {
	if col < 0 || col >= f.InputSize() {
		return fmt.Errorf("%w: column index %d out of range [0, %d)", ErrInvalidParameter, col, f.InputSize())
	}
	return nil
}

// CheckJacobian validates that jac is OutputSize x InputSize.
func CheckJacobian(f Function, jac *Matrix) error {
	if jac == nil {
		return fmt.Errorf("%w: nil jacobian", ErrDimensionMismatch)
	}
	if jac.Rows() != f.OutputSize() || jac.Cols() != f.InputSize() {
		return fmt.Errorf("%w: jacobian is %dx%d, want %dx%d",
			ErrDimensionMismatch, jac.Rows(), jac.Cols(), f.OutputSize(), f.InputSize())
	}
	return nil
}

// CheckHessian validates that hess is InputSize x InputSize.
func CheckHessian(f Function, hess *Matrix) error {
	if hess == nil {
		return fmt.Errorf("%w: nil hessian", ErrDimensionMismatch)
	}
	if hess.Rows() != f.InputSize() || hess.Cols() != f.InputSize() {
		return fmt.Errorf("%w: hessian is %dx%d, want %dx%d",
			ErrDimensionMismatch, hess.Rows(), hess.Cols(), f.InputSize(), f.InputSize())
	}
	return nil
}

// CheckStep validates a finite-difference step: it must be finite and > 0.
func CheckStep(epsilon float64) error {
	if !(epsilon > 0) || math.IsInf(epsilon, 1) {
		return fmt.Errorf("%w: step size must be finite and positive, got %g", ErrInvalidParameter, epsilon)
	}
	return nil
}
