package function

// Func adapts a closure to the Function interface.
type Func struct {
	name    string
	in, out int
	eval    func(result, x []float64)
}

// NewFunc wraps eval as a Function with fixed dimensions.
//
// eval receives slices of exactly in and out elements; dimension checks
// are performed by Func before it is called.
func NewFunc(name string, in, out int, eval func(result, x []float64)) *Func {
	return &Func{name: name, in: in, out: out, eval: eval}
}

// InputSize implements Function.
func (f *Func) InputSize() int { return f.in }

// OutputSize implements Function.
func (f *Func) OutputSize() int { return f.out }

// Name implements Function.
func (f *Func) Name() string { return f.name }

// Evaluate implements Function.
func (f *Func) Evaluate(result, x []float64) error {
	if err := CheckArgument(f, x); err != nil {
		return err
	}
	if err := CheckResult(f, result); err != nil {
		return err
	}
	f.eval(result, x)
	return nil
}

// String implements fmt.Stringer.
func (f *Func) String() string { return Describe(f) }

// DifferentiableFunc adapts a value closure and a gradient closure to Differentiable.
type DifferentiableFunc struct {
	Func
	grad func(grad, x []float64, output int)
}

// NewDifferentiableFunc wraps eval and grad as a Differentiable function.
//
// The Jacobian is assembled row by row from grad.
func NewDifferentiableFunc(name string, in, out int,
	eval func(result, x []float64),
	grad func(grad, x []float64, output int),
) *DifferentiableFunc {
	return &DifferentiableFunc{
		Func: Func{name: name, in: in, out: out, eval: eval},
		grad: grad,
	}
}

// Gradient implements Differentiable.
func (f *DifferentiableFunc) Gradient(grad, x []float64, output int) error {
	if err := CheckArgument(f, x); err != nil {
		return err
	}
	if err := CheckGradient(f, grad); err != nil {
		return err
	}
	if err := CheckOutput(f, output); err != nil {
		return err
	}
	f.grad(grad, x, output)
	return nil
}

// Jacobian implements Differentiable.
func (f *DifferentiableFunc) Jacobian(jac *Matrix, x []float64) error {
	return JacobianFromGradients(f, jac, x)
}

// String implements fmt.Stringer.
func (f *DifferentiableFunc) String() string { return Describe(f) }
