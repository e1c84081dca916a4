// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package findiff computes derivatives by finite differences and checks
// analytical derivatives against them.
//
// # Overview
//
// This package contains:
//   - Simple: forward difference, O(h) truncation, InputSize+1 evaluations per Jacobian
//   - FivePoints: central five-point stencil, O(h⁴) truncation, 4·InputSize evaluations
//   - FiniteDifference: an adapter that makes any Function Differentiable
//   - Checker: compares analytical gradients and Jacobians with finite differences
//
// # Basic Usage
//
//	fd, err := findiff.New(f, findiff.Config{Epsilon: 1e-4, Policy: findiff.FivePoints})
//	grad := make([]float64, f.InputSize())
//	err = fd.Gradient(grad, x, 0)
//
//	// Checking a hand-written gradient
//	if err := findiff.CheckGradientAndThrow(g, 0, x, 1e-4); err != nil {
//	    var m *findiff.GradientMismatch
//	    if errors.As(err, &m) {
//	        fmt.Printf("%+v\n", m)
//	    }
//	}
//
// # Error estimates
//
// For FivePoints, EstimateColumn reports the round-off and truncation error
// of each derivative. Round-off scales as 1/h and truncation as h⁴, so the
// two estimates can be used to choose a step.
package findiff
