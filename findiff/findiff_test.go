// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package findiff_test

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/numdiff/findiff"
	"github.com/born-ml/numdiff/function"
)

// TestAdapterInterfaces verifies that the adapter satisfies the capability interfaces.
func TestAdapterInterfaces(t *testing.T) {
	f := function.NewFunc("cube", 1, 1, func(r, x []float64) { r[0] = x[0] * x[0] * x[0] })

	for _, kind := range []findiff.Kind{findiff.Simple, findiff.FivePoints} {
		t.Run(kind.String(), func(t *testing.T) {
			fd, err := findiff.New(f, findiff.Config{Epsilon: 1e-5, Policy: kind})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			var d function.Differentiable = fd
			g, err := function.GradientOf(d, []float64{2}, 0)
			if err != nil {
				t.Fatalf("GradientOf: %v", err)
			}
			if math.Abs(g[0]-12) > 1e-3 {
				t.Errorf("gradient = %v, want 12", g[0])
			}
		})
	}
}

// TestCheckGradientAndThrow verifies the public mismatch error surface.
func TestCheckGradientAndThrow(t *testing.T) {
	wrong := function.NewDifferentiableFunc("wrong", 1, 1,
		func(r, x []float64) { r[0] = x[0] * x[0] },
		func(g, x []float64, _ int) { g[0] = x[0] },
	)

	err := findiff.CheckGradientAndThrow(wrong, 0, []float64{2}, findiff.DefaultThreshold)
	if !errors.Is(err, findiff.ErrGradientMismatch) {
		t.Fatalf("expected ErrGradientMismatch, got %v", err)
	}
	var m *findiff.GradientMismatch
	if !errors.As(err, &m) {
		t.Fatalf("expected *GradientMismatch, got %T", err)
	}
	if math.Abs(m.MaxDelta-2) > 1e-6 {
		t.Errorf("MaxDelta = %v, want 2", m.MaxDelta)
	}
}
