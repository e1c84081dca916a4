// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package findiff

import (
	"github.com/born-ml/numdiff/function"
	"github.com/born-ml/numdiff/internal/findiff"
)

// Kind selects the finite-difference algorithm.
type Kind = findiff.Kind

// Differentiation algorithms.
const (
	Simple     = findiff.Simple
	FivePoints = findiff.FivePoints
)

// Defaults applied when a config field is zero.
const (
	DefaultEpsilon   = findiff.DefaultEpsilon
	DefaultThreshold = findiff.DefaultThreshold
)

// Errors.
var (
	ErrDimensionMismatch = findiff.ErrDimensionMismatch
	ErrInvalidParameter  = findiff.ErrInvalidParameter
	ErrGradientMismatch  = findiff.ErrGradientMismatch
	ErrJacobianMismatch  = findiff.ErrJacobianMismatch
	ErrUnsupported       = findiff.ErrUnsupported
)

// ParseKind parses a policy name ("simple", "five-points", ...).
func ParseKind(name string) (Kind, error) {
	return findiff.ParseKind(name)
}

// Policy (stateless algorithm plus caller-owned scratch)

// Policy computes finite-difference derivatives of a wrapped function.
type Policy = findiff.Policy

// Workspace is scratch storage for one Policy call at a time.
type Workspace = findiff.Workspace

// Estimate is a derivative with its error estimates.
type Estimate = findiff.Estimate

// NewPolicy binds a differentiation algorithm to f.
func NewPolicy(kind Kind, f function.Function) (*Policy, error) {
	return findiff.NewPolicy(kind, f)
}

// Adapter

// Config configures a FiniteDifference adapter.
type Config = findiff.Config

// FiniteDifference makes a value-only Function differentiable.
type FiniteDifference = findiff.FiniteDifference

// New wraps f in a finite-difference adapter.
//
// Example:
//
//	fd, err := findiff.New(f, findiff.Config{Policy: findiff.FivePoints})
//	jac := function.NewMatrix(f.OutputSize(), f.InputSize())
//	err = fd.Jacobian(jac, x)
func New(f function.Function, cfg Config) (*FiniteDifference, error) {
	return findiff.New(f, cfg)
}

// Checker

// CheckerConfig configures a Checker.
type CheckerConfig = findiff.CheckerConfig

// Checker compares analytical derivatives against finite differences.
type Checker = findiff.Checker

// GradientMismatch is the diagnostic for a failed gradient check.
type GradientMismatch = findiff.GradientMismatch

// JacobianMismatch is the diagnostic for a failed Jacobian check.
type JacobianMismatch = findiff.JacobianMismatch

// NewChecker validates cfg and applies defaults.
func NewChecker(cfg CheckerConfig) (*Checker, error) {
	return findiff.NewChecker(cfg)
}

// CheckGradient reports whether the gradient of output component `output`
// matches finite differences at x within threshold.
func CheckGradient(f function.Differentiable, output int, x []float64, threshold float64) (bool, error) {
	return findiff.CheckGradient(f, output, x, threshold)
}

// CheckGradientAndThrow returns a *GradientMismatch when the gradients disagree.
func CheckGradientAndThrow(f function.Differentiable, output int, x []float64, threshold float64) error {
	return findiff.CheckGradientAndThrow(f, output, x, threshold)
}

// CheckJacobian reports whether the Jacobian matches finite differences at x
// within threshold.
func CheckJacobian(f function.Differentiable, x []float64, threshold float64) (bool, error) {
	return findiff.CheckJacobian(f, x, threshold)
}

// CheckJacobianAndThrow returns a *JacobianMismatch when the Jacobians disagree.
func CheckJacobianAndThrow(f function.Differentiable, x []float64, threshold float64) error {
	return findiff.CheckJacobianAndThrow(f, x, threshold)
}
