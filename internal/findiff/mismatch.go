package findiff

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/numdiff/internal/function"
)

// GradientMismatch reports an analytical gradient that disagrees with its
// finite-difference approximation. It is returned as an error by
// CheckGradientAndThrow and matches ErrGradientMismatch with errors.Is.
type GradientMismatch struct {
	Function          string    // Display name of the checked function
	X                 []float64 // Point where the gradient was evaluated
	Output            int       // Output component whose gradient was checked
	Analytical        []float64 // Gradient returned by the function
	FiniteDifference  []float64 // Gradient computed by finite differences
	MaxDelta          float64   // Maximum |analytical - finite difference|
	MaxDeltaComponent int       // Component holding MaxDelta
	Threshold         float64   // Allowed threshold
}

// Error implements error.
func (e *GradientMismatch) Error() string {
	return fmt.Sprintf("findiff: gradient mismatch for %s output %d: max delta %g at component %d exceeds threshold %g",
		e.Function, e.Output, e.MaxDelta, e.MaxDeltaComponent, e.Threshold)
}

// Is reports whether target is ErrGradientMismatch.
func (e *GradientMismatch) Is(target error) bool { return target == ErrGradientMismatch }

// Format implements fmt.Formatter. %+v prints the full diagnostic.
func (e *GradientMismatch) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = io.WriteString(s, e.Error())
		fmt.Fprintf(s, "\n  x: %v\n  analytical gradient: %v\n  finite difference gradient: %v",
			e.X, e.Analytical, e.FiniteDifference)
		return
	}
	writeFormatted(s, verb, e.Error())
}

// JacobianMismatch reports an analytical Jacobian that disagrees with its
// finite-difference approximation. It is returned as an error by
// CheckJacobianAndThrow and matches ErrJacobianMismatch with errors.Is.
type JacobianMismatch struct {
	Function         string           // Display name of the checked function
	X                []float64        // Point where the Jacobian was evaluated
	Analytical       *function.Matrix // Jacobian returned by the function
	FiniteDifference *function.Matrix // Jacobian computed by finite differences
	MaxDelta         float64          // Maximum |analytical - finite difference|
	MaxDeltaRow      int              // Output index holding MaxDelta
	MaxDeltaCol      int              // Input index holding MaxDelta
	Threshold        float64          // Allowed threshold
}

// Error implements error.
func (e *JacobianMismatch) Error() string {
	return fmt.Sprintf("findiff: jacobian mismatch for %s: max delta %g at (%d, %d) exceeds threshold %g",
		e.Function, e.MaxDelta, e.MaxDeltaRow, e.MaxDeltaCol, e.Threshold)
}

// Is reports whether target is ErrJacobianMismatch.
func (e *JacobianMismatch) Is(target error) bool { return target == ErrJacobianMismatch }

// Format implements fmt.Formatter. %+v prints the full diagnostic.
func (e *JacobianMismatch) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = io.WriteString(s, e.Error())
		fmt.Fprintf(s, "\n  x: %v\n  analytical jacobian: %v\n  finite difference jacobian: %v",
			e.X, e.Analytical, e.FiniteDifference)
		return
	}
	writeFormatted(s, verb, e.Error())
}

func writeFormatted(s fmt.State, verb rune, msg string) {
	if verb == 'q' {
		fmt.Fprintf(s, "%q", msg)
		return
	}
	_, _ = io.WriteString(s, msg)
}

// maxDelta returns the largest |a[i] - b[i]| and its index.
// A NaN difference wins immediately so that it can never pass a threshold.
func maxDelta(a, b []float64) (float64, int) {
	if len(a) == 0 {
		return 0, 0
	}
	d := floats.SubTo(make([]float64, len(a)), a, b)
	for i, v := range d {
		if math.IsNaN(v) {
			return v, i
		}
		d[i] = math.Abs(v)
	}
	at := floats.MaxIdx(d)
	return d[at], at
}

// maxDeltaMatrix is maxDelta over two matrices of equal shape.
func maxDeltaMatrix(a, b *function.Matrix) (float64, int, int) {
	delta, row, col := 0.0, 0, 0
	for i, nI := 0, a.Rows(); i < nI; i++ {
		d, j := maxDelta(a.Row(i), b.Row(i))
		if math.IsNaN(d) {
			return d, i, j
		}
		if d > delta {
			delta, row, col = d, i, j
		}
	}
	return delta, row, col
}

// within reports delta <= threshold; NaN never passes.
func within(delta, threshold float64) bool {
	return delta <= threshold
}
