// Package metrics counts function evaluations and derivative checks with Prometheus.
//
// Collectors are registered on a caller-supplied registry so that libraries
// embedding numdiff never touch the global default registry.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/born-ml/numdiff/internal/function"
)

const namespace = "numdiff"

// Metric names as exposed by the registry.
const (
	EvaluationsName = namespace + "_evaluations_total"
	ChecksName      = namespace + "_checks_total"
)

// Check result label values.
const (
	ResultPass = "pass"
	ResultFail = "fail"
)

// Collector holds the numdiff counters.
type Collector struct {
	Evaluations *prometheus.CounterVec // labels: function
	Checks      *prometheus.CounterVec // labels: kind, result
}

// NewCollector creates the counters and registers them on reg.
// A nil reg leaves the counters unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Number of successful function evaluations, by function name.",
		}, []string{"function"}),
		Checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Number of completed derivative checks, by kind and result.",
		}, []string{"kind", "result"}),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.Evaluations, c.Checks} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	return c, nil
}

// ObserveCheck records one completed check of the given kind ("gradient", "jacobian").
func (c *Collector) ObserveCheck(kind string, passed bool) {
	result := ResultFail
	if passed {
		result = ResultPass
	}
	c.Checks.WithLabelValues(kind, result).Inc()
}

// Instrument wraps f so that every successful Evaluate increments the
// evaluation counter for f's name.
func (c *Collector) Instrument(f function.Function) function.Function {
	return &instrumented{Function: f, evals: c.Evaluations.WithLabelValues(label(f))}
}

// InstrumentDifferentiable is Instrument for differentiable functions; the
// analytical derivatives are passed through unchanged.
func (c *Collector) InstrumentDifferentiable(f function.Differentiable) function.Differentiable {
	return &instrumentedDifferentiable{Differentiable: f, evals: c.Evaluations.WithLabelValues(label(f))}
}

type instrumented struct {
	function.Function
	evals prometheus.Counter
}

func (f *instrumented) Evaluate(result, x []float64) error {
	if err := f.Function.Evaluate(result, x); err != nil {
		return err
	}
	f.evals.Inc()
	return nil
}

type instrumentedDifferentiable struct {
	function.Differentiable
	evals prometheus.Counter
}

func (f *instrumentedDifferentiable) Evaluate(result, x []float64) error {
	if err := f.Differentiable.Evaluate(result, x); err != nil {
		return err
	}
	f.evals.Inc()
	return nil
}

func label(f function.Function) string {
	if name := f.Name(); name != "" {
		return name
	}
	return "anonymous"
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Evaluations map[string]float64 // by function name
	Checks      map[string]float64 // by "kind/result"
}

// Gather reads the current counter values from g.
func Gather(g prometheus.Gatherer) (Snapshot, error) {
	snap := Snapshot{Evaluations: map[string]float64{}, Checks: map[string]float64{}}
	families, err := g.Gather()
	if err != nil {
		return snap, fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range families {
		switch mf.GetName() {
		case EvaluationsName:
			for _, m := range mf.GetMetric() {
				snap.Evaluations[labelValue(m, "function")] = m.GetCounter().GetValue()
			}
		case ChecksName:
			for _, m := range mf.GetMetric() {
				key := labelValue(m, "kind") + "/" + labelValue(m, "result")
				snap.Checks[key] = m.GetCounter().GetValue()
			}
		}
	}
	return snap, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
