package findiff

import (
	"fmt"

	"github.com/born-ml/numdiff/internal/function"
)

// Workspace is the scratch storage used by a Policy call.
//
// Buffers are allocated once and overwritten on every call. A Workspace must
// not be shared by calls that may overlap; give each goroutine its own.
type Workspace struct {
	in, out  int
	column   []float64    // OutputSize
	gradient []float64    // InputSize
	xEps     []float64    // InputSize, perturbed argument
	samples  [6][]float64 // OutputSize each, stencil evaluations
	fifth    []float64    // OutputSize, fifth-derivative estimates
}

func newWorkspace(in, out int) *Workspace {
	ws := &Workspace{
		in:       in,
		out:      out,
		column:   make([]float64, out),
		gradient: make([]float64, in),
		xEps:     make([]float64, in),
		fifth:    make([]float64, out),
	}
	for i := range ws.samples {
		ws.samples[i] = make([]float64, out)
	}
	return ws
}

func (ws *Workspace) fits(f function.Function) error {
	if ws == nil {
		return fmt.Errorf("%w: nil workspace", ErrInvalidParameter)
	}
	if ws.in != f.InputSize() || ws.out != f.OutputSize() {
		return fmt.Errorf("%w: workspace sized for %d -> %d, function is %d -> %d",
			ErrDimensionMismatch, ws.in, ws.out, f.InputSize(), f.OutputSize())
	}
	return nil
}
