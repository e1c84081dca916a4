// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package function defines the capability interfaces used by numdiff.
//
// # Overview
//
// A function maps R^n to R^m and exposes its capabilities through separate
// interfaces:
//   - Function: values only
//   - Differentiable: values plus gradients and Jacobians
//   - TwiceDifferentiable: Differentiable plus per-output Hessians
//
// Callers test for a capability with a type assertion; nothing is inherited.
//
// # Basic Usage
//
//	f := function.NewDifferentiableFunc("square", 1, 1,
//	    func(result, x []float64) { result[0] = x[0] * x[0] },
//	    func(grad, x []float64, _ int) { grad[0] = 2 * x[0] },
//	)
//
//	g, err := function.GradientOf(f, []float64{3}, 0) // [6]
//
// Every entry point validates argument, result and matrix sizes and returns
// ErrDimensionMismatch or ErrInvalidParameter instead of panicking.
package function
