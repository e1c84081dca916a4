package findiff

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/born-ml/numdiff/internal/function"
	"github.com/born-ml/numdiff/internal/metrics"
	"github.com/born-ml/numdiff/internal/parallel"
)

// Check kinds reported to the metrics collector.
const (
	checkGradient = "gradient"
	checkJacobian = "jacobian"
)

// CheckerConfig configures a Checker.
type CheckerConfig struct {
	Threshold float64            // Maximum tolerated |analytical - fd| (default: DefaultThreshold)
	Epsilon   float64            // Finite-difference step (default: DefaultEpsilon)
	Policy    Kind               // Differentiation algorithm (default: Simple)
	Parallel  parallel.Config    // Fan-out for multi-point checks; zero sizes take parallel.DefaultConfig() values
	Logger    *zap.Logger        // Mismatch logging (default: no-op)
	Metrics   *metrics.Collector // Optional check counters
}

// Checker compares analytical derivatives against finite differences.
//
// A Checker holds no scratch state: every check builds its own adapter, so
// a single Checker may be used from several goroutines as long as the
// checked functions tolerate concurrent evaluation.
type Checker struct {
	threshold float64
	fd        Config
	parallel  parallel.Config
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// NewChecker validates cfg and applies defaults.
func NewChecker(cfg CheckerConfig) (*Checker, error) {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if !(cfg.Threshold >= 0) || math.IsInf(cfg.Threshold, 1) {
		return nil, fmt.Errorf("%w: threshold must be finite and non-negative, got %g", ErrInvalidParameter, cfg.Threshold)
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = DefaultEpsilon
	}
	if err := function.CheckStep(cfg.Epsilon); err != nil {
		return nil, err
	}
	if !cfg.Policy.valid() {
		return nil, fmt.Errorf("%w: unknown policy %s", ErrInvalidParameter, cfg.Policy)
	}
	// Enabled is the caller's choice; only unset sizes are filled in.
	defaults := parallel.DefaultConfig()
	if cfg.Parallel.NumWorkers == 0 {
		cfg.Parallel.NumWorkers = defaults.NumWorkers
	}
	if cfg.Parallel.MinChunkSize == 0 {
		cfg.Parallel.MinChunkSize = defaults.MinChunkSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Checker{
		threshold: cfg.Threshold,
		fd:        Config{Epsilon: cfg.Epsilon, Policy: cfg.Policy},
		parallel:  cfg.Parallel,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}, nil
}

// Threshold returns the configured threshold.
func (c *Checker) Threshold() float64 { return c.threshold }

// Parallel returns the fan-out configuration used by GradientAt and JacobianAt.
func (c *Checker) Parallel() parallel.Config { return c.parallel }

// Gradient checks the gradient of output component `output` at x.
//
// It returns (nil, nil) when the gradients agree, a *GradientMismatch when
// they do not, and an error for invalid input (dimensions, index) or when the
// function itself fails.
func (c *Checker) Gradient(f function.Differentiable, output int, x []float64) (*GradientMismatch, error) {
	fd, err := c.adapter(f)
	if err != nil {
		return nil, err
	}
	return c.gradient(fd, f, output, x)
}

// Jacobian checks the full Jacobian of f at x.
//
// It returns (nil, nil) when the Jacobians agree, a *JacobianMismatch when
// they do not, and an error for invalid input or when the function fails.
func (c *Checker) Jacobian(f function.Differentiable, x []float64) (*JacobianMismatch, error) {
	fd, err := c.adapter(f)
	if err != nil {
		return nil, err
	}
	return c.jacobian(fd, f, x)
}

// GradientAt checks the gradient at every point, spreading points over
// goroutines with one adapter per goroutine. The returned slice is aligned
// with points and holds nil for points that passed.
func (c *Checker) GradientAt(ctx context.Context, f function.Differentiable, output int, points [][]float64) ([]*GradientMismatch, error) {
	proto, err := c.adapter(f)
	if err != nil {
		return nil, err
	}
	out := make([]*GradientMismatch, len(points))
	err = parallel.ForChunks(ctx, len(points), c.parallel, func(ctx context.Context, start, end int) error {
		fd := proto.Clone()
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := c.gradient(fd, f, output, points[i])
			if err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
			out[i] = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// JacobianAt is GradientAt for full Jacobians.
func (c *Checker) JacobianAt(ctx context.Context, f function.Differentiable, points [][]float64) ([]*JacobianMismatch, error) {
	proto, err := c.adapter(f)
	if err != nil {
		return nil, err
	}
	out := make([]*JacobianMismatch, len(points))
	err = parallel.ForChunks(ctx, len(points), c.parallel, func(ctx context.Context, start, end int) error {
		fd := proto.Clone()
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := c.jacobian(fd, f, points[i])
			if err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
			out[i] = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Checker) adapter(f function.Differentiable) (*FiniteDifference, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil function", ErrInvalidParameter)
	}
	return New(f, c.fd)
}

func (c *Checker) gradient(fd *FiniteDifference, f function.Differentiable, output int, x []float64) (*GradientMismatch, error) {
	if err := function.CheckArgument(f, x); err != nil {
		return nil, err
	}
	if err := function.CheckOutput(f, output); err != nil {
		return nil, err
	}

	analytical := make([]float64, f.InputSize())
	if err := f.Gradient(analytical, x, output); err != nil {
		return nil, fmt.Errorf("findiff: analytical gradient: %w", err)
	}
	approx := make([]float64, f.InputSize())
	if err := fd.Gradient(approx, x, output); err != nil {
		return nil, err
	}

	delta, at := maxDelta(analytical, approx)
	ok := within(delta, c.threshold)
	c.observe(checkGradient, ok)
	if ok {
		return nil, nil
	}

	m := &GradientMismatch{
		Function:          function.Describe(f),
		X:                 append([]float64(nil), x...),
		Output:            output,
		Analytical:        analytical,
		FiniteDifference:  approx,
		MaxDelta:          delta,
		MaxDeltaComponent: at,
		Threshold:         c.threshold,
	}
	c.logger.Debug("gradient mismatch",
		zap.String("function", m.Function),
		zap.Int("output", output),
		zap.Float64s("x", m.X),
		zap.Float64("max_delta", delta),
		zap.Int("component", at),
		zap.Float64("threshold", c.threshold),
	)
	return m, nil
}

func (c *Checker) jacobian(fd *FiniteDifference, f function.Differentiable, x []float64) (*JacobianMismatch, error) {
	if err := function.CheckArgument(f, x); err != nil {
		return nil, err
	}

	analytical := function.NewMatrix(f.OutputSize(), f.InputSize())
	if err := f.Jacobian(analytical, x); err != nil {
		return nil, fmt.Errorf("findiff: analytical jacobian: %w", err)
	}
	approx := function.NewMatrix(f.OutputSize(), f.InputSize())
	if err := fd.Jacobian(approx, x); err != nil {
		return nil, err
	}

	delta, row, col := maxDeltaMatrix(analytical, approx)
	ok := within(delta, c.threshold)
	c.observe(checkJacobian, ok)
	if ok {
		return nil, nil
	}

	m := &JacobianMismatch{
		Function:         function.Describe(f),
		X:                append([]float64(nil), x...),
		Analytical:       analytical,
		FiniteDifference: approx,
		MaxDelta:         delta,
		MaxDeltaRow:      row,
		MaxDeltaCol:      col,
		Threshold:        c.threshold,
	}
	c.logger.Debug("jacobian mismatch",
		zap.String("function", m.Function),
		zap.Float64s("x", m.X),
		zap.Float64("max_delta", delta),
		zap.Int("row", row),
		zap.Int("col", col),
		zap.Float64("threshold", c.threshold),
	)
	return m, nil
}

func (c *Checker) observe(kind string, passed bool) {
	if c.metrics != nil {
		c.metrics.ObserveCheck(kind, passed)
	}
}

// CheckGradient reports whether the analytical gradient of output component
// `output` matches finite differences at x within threshold, using the
// default step and the Simple policy. A zero threshold means DefaultThreshold.
//
// The error is non-nil only for invalid input or a failing function; a
// mismatch is reported as (false, nil).
func CheckGradient(f function.Differentiable, output int, x []float64, threshold float64) (bool, error) {
	c, err := defaultChecker(threshold)
	if err != nil {
		return false, err
	}
	m, err := c.Gradient(f, output, x)
	if err != nil {
		return false, err
	}
	return m == nil, nil
}

// CheckGradientAndThrow is CheckGradient for strict callers: it returns nil
// when the gradients agree and a *GradientMismatch otherwise.
func CheckGradientAndThrow(f function.Differentiable, output int, x []float64, threshold float64) error {
	c, err := defaultChecker(threshold)
	if err != nil {
		return err
	}
	m, err := c.Gradient(f, output, x)
	if err != nil {
		return err
	}
	if m != nil {
		return m
	}
	return nil
}

// CheckJacobian reports whether the analytical Jacobian matches finite
// differences at x within threshold. See CheckGradient.
func CheckJacobian(f function.Differentiable, x []float64, threshold float64) (bool, error) {
	c, err := defaultChecker(threshold)
	if err != nil {
		return false, err
	}
	m, err := c.Jacobian(f, x)
	if err != nil {
		return false, err
	}
	return m == nil, nil
}

// CheckJacobianAndThrow returns nil when the Jacobians agree and a
// *JacobianMismatch otherwise.
func CheckJacobianAndThrow(f function.Differentiable, x []float64, threshold float64) error {
	c, err := defaultChecker(threshold)
	if err != nil {
		return err
	}
	m, err := c.Jacobian(f, x)
	if err != nil {
		return err
	}
	if m != nil {
		return m
	}
	return nil
}

// defaultChecker is a sequential Checker with the default step and policy.
func defaultChecker(threshold float64) (*Checker, error) {
	return NewChecker(CheckerConfig{Threshold: threshold, Parallel: parallel.Config{NumWorkers: 1}})
}
