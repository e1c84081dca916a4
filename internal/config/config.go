// Package config loads derivative check plans for the numdiff CLI.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/numdiff/internal/findiff"
	"github.com/born-ml/numdiff/internal/metrics"
	"github.com/born-ml/numdiff/internal/parallel"
)

// ErrInvalidConfig is wrapped by every load and validation error.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Check modes.
const (
	ModeGradient = "gradient"
	ModeJacobian = "jacobian"
)

// Environment overrides applied by Load.
const (
	EnvThreshold = "NUMDIFF_THRESHOLD"
	EnvEpsilon   = "NUMDIFF_EPSILON"
	EnvPolicy    = "NUMDIFF_POLICY"
	EnvWorkers   = "NUMDIFF_WORKERS"
)

// Plan is a set of derivative checks sharing one checker configuration.
type Plan struct {
	Threshold float64 `yaml:"threshold"`
	Epsilon   float64 `yaml:"epsilon"`
	Policy    string  `yaml:"policy"`
	Workers   int     `yaml:"workers"`
	Checks    []Check `yaml:"checks"`
}

// Check is a single catalogue function checked at one or more points.
type Check struct {
	Name      string      `yaml:"name"`
	Function  string      `yaml:"function"`
	Dimension int         `yaml:"dimension"`
	Mode      string      `yaml:"mode"`
	Output    int         `yaml:"output"`
	Points    [][]float64 `yaml:"points"`
}

// Default returns a plan with the checker defaults and no checks.
func Default() *Plan {
	return &Plan{
		Threshold: findiff.DefaultThreshold,
		Epsilon:   findiff.DefaultEpsilon,
		Policy:    findiff.Simple.String(),
	}
}

// Load reads a plan from a YAML file, applies environment overrides and
// validates the result.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, path, err)
	}
	p, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := p.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse decodes and validates a plan without consulting the environment.
func Parse(data []byte) (*Plan, error) {
	p, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func decode(data []byte) (*Plan, error) {
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrInvalidConfig, err)
	}
	for i := range p.Checks {
		if p.Checks[i].Mode == "" {
			p.Checks[i].Mode = ModeGradient
		}
		if p.Checks[i].Name == "" {
			p.Checks[i].Name = fmt.Sprintf("%s-%d", p.Checks[i].Function, i)
		}
	}
	return p, nil
}

func (p *Plan) applyEnvOverrides() error {
	if v := os.Getenv(EnvThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvThreshold, err)
		}
		p.Threshold = f
	}
	if v := os.Getenv(EnvEpsilon); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvEpsilon, err)
		}
		p.Epsilon = f
	}
	if v := os.Getenv(EnvPolicy); v != "" {
		p.Policy = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvWorkers, err)
		}
		p.Workers = n
	}
	return nil
}

// Validate checks the plan for consistency.
func (p *Plan) Validate() error {
	// Zero would silently become the checker default; omit the key for that.
	if !(p.Threshold > 0) || math.IsInf(p.Threshold, 1) {
		return fmt.Errorf("%w: threshold must be finite and > 0, got %g", ErrInvalidConfig, p.Threshold)
	}
	if !(p.Epsilon > 0) || math.IsInf(p.Epsilon, 1) {
		return fmt.Errorf("%w: epsilon must be finite and > 0, got %g", ErrInvalidConfig, p.Epsilon)
	}
	if _, err := findiff.ParseKind(p.Policy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, p.Workers)
	}
	names := make(map[string]bool, len(p.Checks))
	for i, c := range p.Checks {
		if names[c.Name] {
			return fmt.Errorf("%w: check %d: duplicate name %q", ErrInvalidConfig, i, c.Name)
		}
		names[c.Name] = true
		if err := c.validate(); err != nil {
			return fmt.Errorf("%w: check %q: %w", ErrInvalidConfig, c.Name, err)
		}
	}
	return nil
}

func (c *Check) validate() error {
	if c.Function == "" {
		return errors.New("missing function")
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("dimension must be > 0, got %d", c.Dimension)
	}
	switch c.Mode {
	case ModeGradient:
		if c.Output < 0 {
			return fmt.Errorf("output must be >= 0, got %d", c.Output)
		}
	case ModeJacobian:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if len(c.Points) == 0 {
		return errors.New("no points")
	}
	for j, x := range c.Points {
		if len(x) != c.Dimension {
			return fmt.Errorf("point %d has length %d, want %d", j, len(x), c.Dimension)
		}
	}
	return nil
}

// CheckerConfig converts the plan into a findiff.CheckerConfig.
// The plan must have been validated.
func (p *Plan) CheckerConfig(logger *zap.Logger, m *metrics.Collector) findiff.CheckerConfig {
	kind, _ := findiff.ParseKind(p.Policy)
	par := parallel.DefaultConfig()
	if p.Workers > 0 {
		par.NumWorkers = p.Workers
		par.Enabled = p.Workers > 1
	}
	return findiff.CheckerConfig{
		Threshold: p.Threshold,
		Epsilon:   p.Epsilon,
		Policy:    kind,
		Parallel:  par,
		Logger:    logger,
		Metrics:   m,
	}
}
