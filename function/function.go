// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package function

import (
	"github.com/born-ml/numdiff/internal/function"
)

// Function is a vector-valued function R^n -> R^m.
type Function = function.Function

// Differentiable is a Function with gradients and Jacobians.
type Differentiable = function.Differentiable

// TwiceDifferentiable is a Differentiable function with Hessians.
type TwiceDifferentiable = function.TwiceDifferentiable

// Matrix is a dense row-major matrix used for Jacobians and Hessians.
type Matrix = function.Matrix

// Func adapts a closure to Function.
type Func = function.Func

// DifferentiableFunc adapts value and gradient closures to Differentiable.
type DifferentiableFunc = function.DifferentiableFunc

// Linear is the affine map A·x + b.
type Linear = function.Linear

// Quadratic is the scalar function ½xᵀAx + bᵀx + c.
type Quadratic = function.Quadratic

// Errors returned by every function implementation.
var (
	ErrDimensionMismatch = function.ErrDimensionMismatch
	ErrInvalidParameter  = function.ErrInvalidParameter
)

// NewMatrix creates a zero rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return function.NewMatrix(rows, cols)
}

// NewMatrixFromRows creates a matrix from equal-length rows.
func NewMatrixFromRows(rows [][]float64) (*Matrix, error) {
	return function.NewMatrixFromRows(rows)
}

// NewFunc wraps eval as a Function with fixed dimensions.
func NewFunc(name string, in, out int, eval func(result, x []float64)) *Func {
	return function.NewFunc(name, in, out, eval)
}

// NewDifferentiableFunc wraps eval and grad as a Differentiable function.
func NewDifferentiableFunc(name string, in, out int,
	eval func(result, x []float64),
	grad func(grad, x []float64, output int),
) *DifferentiableFunc {
	return function.NewDifferentiableFunc(name, in, out, eval, grad)
}

// NewLinear creates f(x) = A·x + b.
func NewLinear(name string, a *Matrix, b []float64) (*Linear, error) {
	return function.NewLinear(name, a, b)
}

// NewQuadratic creates f(x) = ½xᵀAx + bᵀx + c.
func NewQuadratic(name string, a *Matrix, b []float64, c float64) (*Quadratic, error) {
	return function.NewQuadratic(name, a, b, c)
}

// NewNullQuadratic returns the n-dimensional zero function.
func NewNullQuadratic(name string, n int) *Quadratic {
	return function.NewNullQuadratic(name, n)
}

// Value evaluates f at x into a new slice.
func Value(f Function, x []float64) ([]float64, error) {
	return function.Value(f, x)
}

// GradientOf returns the gradient of output component `output` at x.
func GradientOf(f Differentiable, x []float64, output int) ([]float64, error) {
	return function.GradientOf(f, x, output)
}

// JacobianOf returns the Jacobian of f at x.
func JacobianOf(f Differentiable, x []float64) (*Matrix, error) {
	return function.JacobianOf(f, x)
}

// Describe returns "name (in -> out)" for display.
func Describe(f Function) string {
	return function.Describe(f)
}
