package findiff

import (
	"fmt"

	"github.com/born-ml/numdiff/internal/function"
)

const (
	// DefaultEpsilon is the step used when none is configured.
	DefaultEpsilon = 1e-8

	// DefaultThreshold is the maximum tolerated |analytical - finite difference|.
	DefaultThreshold = 1e-4
)

// Config configures a FiniteDifference adapter.
type Config struct {
	Epsilon float64 // Step size h (default: DefaultEpsilon)
	Policy  Kind    // Differentiation algorithm (default: Simple)
}

// FiniteDifference turns a value-only Function into a Differentiable one.
//
// Evaluate delegates to the wrapped function; Gradient and Jacobian run the
// configured Policy with a workspace owned by the adapter. A FiniteDifference
// is therefore not safe for concurrent use: call Clone to get one adapter per
// goroutine. The wrapped function is evaluated once per stencil point, so any
// side effects it has are repeated accordingly.
//
// Example:
//
//	f := function.NewFunc("cube", 1, 1, func(r, x []float64) { r[0] = x[0] * x[0] * x[0] })
//	fd, _ := findiff.New(f, findiff.Config{Epsilon: 1e-4, Policy: findiff.FivePoints})
//	grad, _ := function.GradientOf(fd, []float64{2}, 0) // ≈ [12]
type FiniteDifference struct {
	adaptee function.Function
	epsilon float64
	policy  *Policy
	ws      *Workspace
}

// New wraps f with the policy and step from cfg.
func New(f function.Function, cfg Config) (*FiniteDifference, error) {
	if cfg.Epsilon == 0 {
		cfg.Epsilon = DefaultEpsilon
	}
	if err := function.CheckStep(cfg.Epsilon); err != nil {
		return nil, err
	}
	policy, err := NewPolicy(cfg.Policy, f)
	if err != nil {
		return nil, err
	}
	return &FiniteDifference{
		adaptee: f,
		epsilon: cfg.Epsilon,
		policy:  policy,
		ws:      policy.NewWorkspace(),
	}, nil
}

// Clone returns an adapter with the same function, step and policy but its
// own workspace.
func (fd *FiniteDifference) Clone() *FiniteDifference {
	return &FiniteDifference{
		adaptee: fd.adaptee,
		epsilon: fd.epsilon,
		policy:  fd.policy,
		ws:      fd.policy.NewWorkspace(),
	}
}

// InputSize implements function.Function.
func (fd *FiniteDifference) InputSize() int { return fd.adaptee.InputSize() }

// OutputSize implements function.Function.
func (fd *FiniteDifference) OutputSize() int { return fd.adaptee.OutputSize() }

// Name implements function.Function.
func (fd *FiniteDifference) Name() string {
	if name := fd.adaptee.Name(); name != "" {
		return name + " (finite difference gradient)"
	}
	return "finite difference gradient"
}

// Evaluate implements function.Function.
func (fd *FiniteDifference) Evaluate(result, x []float64) error {
	return fd.adaptee.Evaluate(result, x)
}

// Gradient implements function.Differentiable.
func (fd *FiniteDifference) Gradient(grad, x []float64, output int) error {
	return fd.policy.Gradient(fd.ws, grad, fd.epsilon, x, output)
}

// Jacobian implements function.Differentiable.
func (fd *FiniteDifference) Jacobian(jac *function.Matrix, x []float64) error {
	return fd.policy.Jacobian(fd.ws, jac, fd.epsilon, x)
}

// Column computes one Jacobian column.
func (fd *FiniteDifference) Column(column, x []float64, col int) error {
	return fd.policy.Column(fd.ws, column, fd.epsilon, x, col)
}

// EstimateColumn computes one column with error estimates (FivePoints only).
func (fd *FiniteDifference) EstimateColumn(dst []Estimate, x []float64, col int) error {
	return fd.policy.EstimateColumn(fd.ws, dst, fd.epsilon, x, col)
}

// Epsilon returns the step size.
func (fd *FiniteDifference) Epsilon() float64 { return fd.epsilon }

// Kind returns the differentiation algorithm.
func (fd *FiniteDifference) Kind() Kind { return fd.policy.Kind() }

// Adaptee returns the wrapped function.
func (fd *FiniteDifference) Adaptee() function.Function { return fd.adaptee }

// String implements fmt.Stringer.
func (fd *FiniteDifference) String() string {
	return fmt.Sprintf("%s [policy=%s, epsilon=%g]", function.Describe(fd), fd.policy.Kind(), fd.epsilon)
}
