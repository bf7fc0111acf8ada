// Package metrics exposes planner activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/serlyo/pkg/planner"
)

const namespace = "serlyo"

// Metrics implements planner.Recorder on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	Mutations           *prometheus.CounterVec
	GeneratedPosts      prometheus.Counter
	PersistenceFailures *prometheus.CounterVec
	PostsGauge          *prometheus.GaugeVec
}

// New registers the planner metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "posts",
				Name:      "mutations_total",
				Help:      "Successful post mutations by operation",
			},
			[]string{"op"},
		),
		GeneratedPosts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "generator",
				Name:      "posts_total",
				Help:      "Posts created by the bulk generator",
			},
		),
		PersistenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "write_failures_total",
				Help:      "Failed writes by store key",
			},
			[]string{"key"},
		),
		PostsGauge: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "posts",
				Name:      "count",
				Help:      "Current number of posts by state",
			},
			[]string{"state"},
		),
	}
}

// Registry returns the registry holding the planner metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Mutation implements planner.Recorder.
func (m *Metrics) Mutation(op string) {
	m.Mutations.WithLabelValues(op).Inc()
}

// Generated implements planner.Recorder.
func (m *Metrics) Generated(n int) {
	m.GeneratedPosts.Add(float64(n))
}

// PersistenceFailure implements planner.Recorder.
func (m *Metrics) PersistenceFailure(key string) {
	m.PersistenceFailures.WithLabelValues(key).Inc()
}

// Posts implements planner.Recorder.
func (m *Metrics) Posts(active, archived int) {
	m.PostsGauge.WithLabelValues("active").Set(float64(active))
	m.PostsGauge.WithLabelValues("archived").Set(float64(archived))
}

// Snapshot gathers the current values keyed by metric name and label, for
// printing without an HTTP endpoint.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range metric.GetLabel() {
				name += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			switch {
			case metric.GetCounter() != nil:
				out[name] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[name] = metric.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}

var _ planner.Recorder = (*Metrics)(nil)
