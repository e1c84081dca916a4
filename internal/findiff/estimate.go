package findiff

import (
	"fmt"
	"math"

	"github.com/born-ml/numdiff/internal/function"
)

// machineEpsilon is the spacing between 1 and the next float64.
var machineEpsilon = math.Nextafter(1, 2) - 1

// fifthStep balances truncation (O(H²)) against round-off (O(ε/H⁵)) in the
// six-point fifth-derivative difference.
var fifthStep = math.Pow(machineEpsilon, 1.0/7)

// Estimate is a five-point derivative with its error terms.
type Estimate struct {
	// Derivative is the five-point stencil value, identical to Column.
	Derivative float64

	// RoundOff bounds the cancellation error of the stencil; it grows as 1/h.
	RoundOff float64

	// Truncation is h⁴/30 · |f⁽⁵⁾|, the leading error of the stencil; it
	// shrinks as h⁴. The fifth derivative is estimated at a fixed wide step
	// independent of h.
	Truncation float64
}

// EstimateColumn computes one Jacobian column together with round-off and
// truncation estimates for every output component. len(dst) must equal OutputSize.
//
// The estimates are diagnostics only; the step is never adjusted. Only the
// FivePoints policy supports this call; Simple returns ErrUnsupported.
// It costs 10 evaluations: four for the stencil and six for the fifth derivative.
func (p *Policy) EstimateColumn(ws *Workspace, dst []Estimate, epsilon float64, x []float64, col int) error {
	if p.kind != FivePoints {
		return fmt.Errorf("%w: error estimates need %s, have %s", ErrUnsupported, FivePoints, p.kind)
	}
	if err := p.validate(ws, epsilon, x); err != nil {
		return err
	}
	if len(dst) != p.adaptee.OutputSize() {
		return fmt.Errorf("%w: estimates have length %d, want %d",
			ErrDimensionMismatch, len(dst), p.adaptee.OutputSize())
	}
	if err := function.CheckColumn(p.adaptee, col); err != nil {
		return err
	}

	copy(ws.xEps, x)
	if err := p.fifthDerivative(ws, x, col); err != nil {
		return err
	}
	if err := p.stencil(ws, epsilon, x, col); err != nil {
		return err
	}

	h := epsilon
	h4 := h * h * h * h
	xj := math.Abs(x[col])
	for k := range dst {
		m2, m1, p1, p2 := ws.samples[0][k], ws.samples[1][k], ws.samples[2][k], ws.samples[3][k]
		d := fivePoints(ws.samples, k, h)
		magnitude := math.Abs(m2) + 8*math.Abs(m1) + 8*math.Abs(p1) + math.Abs(p2)
		dst[k] = Estimate{
			Derivative: d,
			RoundOff:   machineEpsilon*magnitude/(12*h) + machineEpsilon*math.Abs(d)*xj/h,
			Truncation: h4 / 30 * math.Abs(ws.fifth[k]),
		}
	}
	return nil
}

// fifthOffsets are the sample positions, in steps of H, used by fifthDerivative.
var fifthOffsets = [6]float64{-3, -2, -1, 1, 2, 3}

// fifthDerivative estimates f⁽⁵⁾ along e_j for every output into ws.fifth:
//
//	(f(x+3H) - 4f(x+2H) + 5f(x+H) - 5f(x-H) + 4f(x-2H) - f(x-3H)) / 2H⁵
func (p *Policy) fifthDerivative(ws *Workspace, x []float64, j int) error {
	wide := fifthStep * max(1, math.Abs(x[j]))
	defer func() { ws.xEps[j] = x[j] }()
	for i, off := range fifthOffsets {
		ws.xEps[j] = x[j] + off*wide
		if err := p.eval(ws.samples[i], ws.xEps, j); err != nil {
			return err
		}
	}

	s := ws.samples
	denom := 2 * math.Pow(wide, 5)
	for k := range ws.fifth {
		ws.fifth[k] = (s[5][k] - 4*s[4][k] + 5*s[3][k] - 5*s[2][k] + 4*s[1][k] - s[0][k]) / denom
	}
	return nil
}
