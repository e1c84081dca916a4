package findiff

import (
	"fmt"
	"strings"

	"github.com/born-ml/numdiff/internal/function"
)

// Kind selects the finite-difference algorithm.
type Kind int

const (
	// Simple is the forward difference (f(x+h) - f(x)) / h.
	// Truncation error O(h); a full Jacobian costs InputSize+1 evaluations.
	Simple Kind = iota

	// FivePoints is the central five-point stencil
	// (-f(x+2h) + 8f(x+h) - 8f(x-h) + f(x-2h)) / 12h.
	// Truncation error O(h⁴); a full Jacobian costs 4·InputSize evaluations.
	FivePoints
)

// String returns the policy name.
func (k Kind) String() string {
	switch k {
	case Simple:
		return "Simple"
	case FivePoints:
		return "FivePointsRule"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind resolves a policy by name. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "simple", "forward":
		return Simple, nil
	case "fivepointsrule", "fivepoints", "five-points", "central":
		return FivePoints, nil
	default:
		return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidParameter, name)
	}
}

func (k Kind) valid() bool {
	return k == Simple || k == FivePoints
}

// Policy computes finite-difference derivatives of a wrapped function.
//
// A Policy is immutable and safe to share; all mutable state lives in the
// Workspace passed to each call, so concurrent callers only need one
// Workspace each.
type Policy struct {
	kind    Kind
	adaptee function.Function
}

// NewPolicy binds a differentiation algorithm to f.
func NewPolicy(kind Kind, f function.Function) (*Policy, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil function", ErrInvalidParameter)
	}
	if !kind.valid() {
		return nil, fmt.Errorf("%w: unknown policy %s", ErrInvalidParameter, kind)
	}
	return &Policy{kind: kind, adaptee: f}, nil
}

// Kind returns the algorithm of the policy.
func (p *Policy) Kind() Kind { return p.kind }

// Adaptee returns the wrapped function.
func (p *Policy) Adaptee() function.Function { return p.adaptee }

// Column computes one Jacobian column: the sensitivity of every output to
// input component col. len(column) must equal OutputSize.
func (p *Policy) Column(ws *Workspace, column []float64, epsilon float64, x []float64, col int) error {
	if err := p.validate(ws, epsilon, x); err != nil {
		return err
	}
	if err := function.CheckResult(p.adaptee, column); err != nil {
		return err
	}
	if err := function.CheckColumn(p.adaptee, col); err != nil {
		return err
	}

	copy(ws.xEps, x)
	switch p.kind {
	case Simple:
		if err := p.eval(ws.samples[0], x, -1); err != nil {
			return err
		}
		if err := p.forwardColumn(ws, ws.column, ws.samples[0], epsilon, x, col); err != nil {
			return err
		}
	case FivePoints:
		if err := p.stencilColumn(ws, ws.column, epsilon, x, col); err != nil {
			return err
		}
	}
	copy(column, ws.column)
	return nil
}

// Gradient computes the gradient of output component `output` with respect
// to every input. len(grad) must equal InputSize.
func (p *Policy) Gradient(ws *Workspace, grad []float64, epsilon float64, x []float64, output int) error {
	if err := p.validate(ws, epsilon, x); err != nil {
		return err
	}
	if err := function.CheckGradient(p.adaptee, grad); err != nil {
		return err
	}
	if err := function.CheckOutput(p.adaptee, output); err != nil {
		return err
	}

	copy(ws.xEps, x)
	switch p.kind {
	case Simple:
		f0, f1 := ws.samples[0], ws.samples[1]
		if err := p.eval(f0, x, -1); err != nil {
			return err
		}
		for j := range x {
			ws.xEps[j] = x[j] + epsilon
			err := p.eval(f1, ws.xEps, j)
			ws.xEps[j] = x[j]
			if err != nil {
				return err
			}
			ws.gradient[j] = (f1[output] - f0[output]) / epsilon
		}
	case FivePoints:
		for j := range x {
			if err := p.stencil(ws, epsilon, x, j); err != nil {
				return err
			}
			ws.gradient[j] = fivePoints(ws.samples, output, epsilon)
		}
	}
	copy(grad, ws.gradient)
	return nil
}

// Jacobian computes the full OutputSize x InputSize Jacobian.
//
// Simple evaluates the baseline f(x) once and reuses it for every column.
// If the wrapped function fails part way, the content of jac is unspecified.
func (p *Policy) Jacobian(ws *Workspace, jac *function.Matrix, epsilon float64, x []float64) error {
	if err := p.validate(ws, epsilon, x); err != nil {
		return err
	}
	if err := function.CheckJacobian(p.adaptee, jac); err != nil {
		return err
	}

	copy(ws.xEps, x)
	if p.kind == Simple {
		if err := p.eval(ws.samples[0], x, -1); err != nil {
			return err
		}
	}
	for j := range x {
		var err error
		if p.kind == Simple {
			err = p.forwardColumn(ws, ws.column, ws.samples[0], epsilon, x, j)
		} else {
			err = p.stencilColumn(ws, ws.column, epsilon, x, j)
		}
		if err != nil {
			return err
		}
		jac.SetCol(j, ws.column)
	}
	return nil
}

// NewWorkspace allocates scratch storage sized for the wrapped function.
func (p *Policy) NewWorkspace() *Workspace {
	return newWorkspace(p.adaptee.InputSize(), p.adaptee.OutputSize())
}

func (p *Policy) validate(ws *Workspace, epsilon float64, x []float64) error {
	if err := function.CheckStep(epsilon); err != nil {
		return err
	}
	if err := function.CheckArgument(p.adaptee, x); err != nil {
		return err
	}
	return ws.fits(p.adaptee)
}

// forwardColumn writes (f(x + h·e_j) - f0) / h into dst. ws.xEps must equal x on entry
// and is restored on return.
func (p *Policy) forwardColumn(ws *Workspace, dst, f0 []float64, h float64, x []float64, j int) error {
	f1 := ws.samples[1]
	ws.xEps[j] = x[j] + h
	err := p.eval(f1, ws.xEps, j)
	ws.xEps[j] = x[j]
	if err != nil {
		return err
	}
	for k := range dst {
		dst[k] = (f1[k] - f0[k]) / h
	}
	return nil
}

// stencilColumn writes the five-point derivative of every output along e_j into dst.
func (p *Policy) stencilColumn(ws *Workspace, dst []float64, h float64, x []float64, j int) error {
	if err := p.stencil(ws, h, x, j); err != nil {
		return err
	}
	for k := range dst {
		dst[k] = fivePoints(ws.samples, k, h)
	}
	return nil
}

// stencilOffsets are the sample positions, in steps of h, stored in
// ws.samples[0..3] by stencil.
var stencilOffsets = [4]float64{-2, -1, 1, 2}

// stencil evaluates f(x-2h·e_j), f(x-h·e_j), f(x+h·e_j), f(x+2h·e_j) into
// ws.samples[0..3]. ws.xEps must equal x on entry and is restored on return.
func (p *Policy) stencil(ws *Workspace, h float64, x []float64, j int) error {
	defer func() { ws.xEps[j] = x[j] }()
	for i, off := range stencilOffsets {
		ws.xEps[j] = x[j] + off*h
		if err := p.eval(ws.samples[i], ws.xEps, j); err != nil {
			return err
		}
	}
	return nil
}

// fivePoints combines the stencil samples for output k.
func fivePoints(s [6][]float64, k int, h float64) float64 {
	m2, m1, p1, p2 := s[0][k], s[1][k], s[2][k], s[3][k]
	return (-p2 + 8*p1 - 8*m1 + m2) / (12 * h)
}

func (p *Policy) eval(result, x []float64, col int) error {
	if err := p.adaptee.Evaluate(result, x); err != nil {
		if col < 0 {
			return fmt.Errorf("findiff: evaluate %s at baseline: %w", function.Describe(p.adaptee), err)
		}
		return fmt.Errorf("findiff: evaluate %s along column %d: %w", function.Describe(p.adaptee), col, err)
	}
	return nil
}
