// Package metrics exports kernel activity as Prometheus metrics. A Collector
// owns its own registry and is fed either from the event bus or directly.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mukesh1q2/Brahm-sub001/internal/bus"
	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

const namespace = "conscious"

// Tool call outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeBlocked = "blocked"
)

// Collector aggregates kernel events into Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	runs      prometheus.Counter
	steps     prometheus.Counter
	access    *prometheus.CounterVec
	phi       prometheus.Histogram
	stability prometheus.Gauge
	toolCalls *prometheus.CounterVec
	weights   *prometheus.GaugeVec
	events    *prometheus.CounterVec

	mu    sync.Mutex
	bus   *bus.Bus
	subID bus.SubscriptionID
}

// NewCollector creates a collector with a private registry. When
// withRuntime is set the Go runtime and process collectors are registered
// as well.
func NewCollector(withRuntime bool) *Collector {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		runs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Kernel runs started",
		}),
		steps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Kernel steps that produced a phi measurement",
		}),
		access: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_total",
			Help:      "Conscious-access gate decisions",
		}, []string{"granted"}),
		phi: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phi_value",
			Help:      "Distribution of per-step phi values",
			Buckets:   []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 5, 6, 8, 10},
		}),
		stability: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stability_score",
			Help:      "Most recent stability score",
		}),
		toolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool executions by outcome",
		}, []string{"outcome"}),
		weights: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phi_weight",
			Help:      "Most recent runtime phi weight",
		}, []string{"component"}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Kernel events by type",
		}, []string{"type"}),
	}
}

// Registry exposes the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Attach subscribes the collector to every event on b. A collector is
// attached to at most one bus; attaching again moves it.
func (c *Collector) Attach(b *bus.Bus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detachLocked()
	c.bus = b
	c.subID = b.Subscribe(bus.Wildcard, c.Observe)
}

// Detach stops listening to the bus.
func (c *Collector) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detachLocked()
}

func (c *Collector) detachLocked() {
	if c.bus != nil && c.subID != "" {
		_ = c.bus.Unsubscribe(c.subID)
	}
	c.bus, c.subID = nil, ""
}

// Observe records one event.
func (c *Collector) Observe(e conscious.Event) {
	c.events.WithLabelValues(string(e.Type)).Inc()

	switch e.Type {
	case conscious.EventRunStart:
		c.runs.Inc()
	case conscious.EventPhi:
		if e.Phi == nil {
			return
		}
		c.steps.Inc()
		c.phi.Observe(e.Phi.PhiValue)
		c.setWeights(e.Phi.Weights)
	case conscious.EventConsciousAccess:
		if e.Access != nil {
			c.access.WithLabelValues(strconv.FormatBool(e.Access.Granted)).Inc()
		}
	case conscious.EventStability:
		if e.Stability != nil {
			c.stability.Set(e.Stability.StabilityScore)
		}
	case conscious.EventTool:
		if e.Tool != nil {
			c.toolCalls.WithLabelValues(outcome(e.Tool)).Inc()
		}
	case conscious.EventCIPSWeights:
		if e.Weights != nil {
			c.setWeights(*e.Weights)
		}
	}
}

func (c *Collector) setWeights(w conscious.PhiWeights) {
	c.weights.WithLabelValues("gwt").Set(w.GWT)
	c.weights.WithLabelValues("causal").Set(w.Causal)
	c.weights.WithLabelValues("pp").Set(w.PP)
}

func outcome(t *conscious.ToolOutcome) string {
	switch {
	case t.Blocked:
		return OutcomeBlocked
	case t.OK:
		return OutcomeOK
	default:
		return OutcomeError
	}
}
