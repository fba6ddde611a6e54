// Package metrics records solver timings in a Prometheus registry. Runs
// are short-lived batch jobs, so the registry is written to a textfile for
// a node-exporter textfile collector instead of being served over HTTP.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/contactkeval/option-pde/internal/pde"
)

// Metrics implements pde.Observer.
type Metrics struct {
	registry *prometheus.Registry

	mu     sync.Mutex
	maxDev map[string]float64

	Factorizations   *prometheus.CounterVec   // factorizations per option kind
	FactorDuration   *prometheus.HistogramVec // seconds spent factoring the implicit operator
	OperatorOrder    *prometheus.GaugeVec     // order of the implicit operator
	Steps            *prometheus.CounterVec   // solved time steps
	StepDuration     *prometheus.HistogramVec // seconds per time step
	MaxDeviation     *prometheus.GaugeVec     // largest factored-vs-dense deviation seen
	RunsTotal        *prometheus.CounterVec   // finished runs by kind and outcome
	PresentValueSpot *prometheus.GaugeVec     // value at the grid point nearest the summary spot, t = 0
}

var _ pde.Observer = (*Metrics)(nil)

// New creates a registry with the Go runtime collector and the solver metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{registry: reg, maxDev: make(map[string]float64)}
	m.Factorizations = m.newCounterVec(prometheus.CounterOpts{
		Name: "bsm_pde_factorizations_total",
		Help: "Number of implicit operator factorizations",
	}, []string{"kind"})
	m.FactorDuration = m.newHistogramVec(prometheus.HistogramOpts{
		Name:    "bsm_pde_factorization_duration_seconds",
		Help:    "Time spent factoring the implicit operator",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	}, []string{"kind"})
	m.OperatorOrder = m.newGaugeVec(prometheus.GaugeOpts{
		Name: "bsm_pde_operator_order",
		Help: "Order of the implicit tridiagonal operator",
	}, []string{"kind"})
	m.Steps = m.newCounterVec(prometheus.CounterOpts{
		Name: "bsm_pde_steps_total",
		Help: "Number of solved time steps",
	}, []string{"kind"})
	m.StepDuration = m.newHistogramVec(prometheus.HistogramOpts{
		Name:    "bsm_pde_step_duration_seconds",
		Help:    "Time spent per backward time step",
		Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
	}, []string{"kind"})
	m.MaxDeviation = m.newGaugeVec(prometheus.GaugeOpts{
		Name: "bsm_pde_max_dense_deviation",
		Help: "Largest absolute difference between factored and dense step solves",
	}, []string{"kind"})
	m.RunsTotal = m.newCounterVec(prometheus.CounterOpts{
		Name: "bsm_pde_runs_total",
		Help: "Finished pricing runs",
	}, []string{"kind", "outcome"})
	m.PresentValueSpot = m.newGaugeVec(prometheus.GaugeOpts{
		Name: "bsm_pde_present_value",
		Help: "Option value at t=0 on the grid point nearest the summary spot",
	}, []string{"kind"})
	return m
}

func (m *Metrics) newCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labels)
	m.registry.MustRegister(cv)
	return cv
}

func (m *Metrics) newGaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	gv := prometheus.NewGaugeVec(opts, labels)
	m.registry.MustRegister(gv)
	return gv
}

func (m *Metrics) newHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labels)
	m.registry.MustRegister(hv)
	return hv
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFactorization implements pde.Observer.
func (m *Metrics) ObserveFactorization(kind pde.OptionKind, order int, elapsed time.Duration) {
	k := string(kind)
	m.Factorizations.WithLabelValues(k).Inc()
	m.FactorDuration.WithLabelValues(k).Observe(elapsed.Seconds())
	m.OperatorOrder.WithLabelValues(k).Set(float64(order))
}

// ObserveStep implements pde.Observer.
func (m *Metrics) ObserveStep(kind pde.OptionKind, _ int, elapsed time.Duration, deviation float64) {
	k := string(kind)
	m.Steps.WithLabelValues(k).Inc()
	m.StepDuration.WithLabelValues(k).Observe(elapsed.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	if deviation > m.maxDev[k] {
		m.maxDev[k] = deviation
		m.MaxDeviation.WithLabelValues(k).Set(deviation)
	}
}

// RecordRun counts a finished run; value is recorded only on success.
func (m *Metrics) RecordRun(kind pde.OptionKind, value float64, err error) {
	k := string(kind)
	if err != nil {
		m.RunsTotal.WithLabelValues(k, "error").Inc()
		return
	}
	m.RunsTotal.WithLabelValues(k, "ok").Inc()
	m.PresentValueSpot.WithLabelValues(k).Set(value)
}

// WriteTextfile writes every metric in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
