package bootstrap

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/wirekit/metric"
)

// bootstrapMetrics holds Prometheus metrics for orchestration runs.
type bootstrapMetrics struct {
	phaseDuration *prometheus.HistogramVec // By phase (mutation/configuration/interception)

	mutatorsInvoked   prometheus.Counter // Total mutators invoked across runs
	rediscoveryPasses prometheus.Counter // Fixpoint loop passes

	interceptorsInstalled prometheus.Gauge // Chain length after the last run
	definitionsResolved   prometheus.Gauge // Registry size after the last run
}

// newBootstrapMetrics creates and registers orchestration metrics with the
// provided registry.
func newBootstrapMetrics(registry *metric.Registry) (*bootstrapMetrics, error) {
	if registry == nil {
		return nil, nil // Metrics disabled
	}

	m := &bootstrapMetrics{
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wirekit",
			Subsystem: "bootstrap",
			Name:      "phase_duration_seconds",
			Help:      "Bootstrap phase duration in seconds",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1.0, 5.0},
		}, []string{"phase"}),

		mutatorsInvoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wirekit",
			Subsystem: "bootstrap",
			Name:      "mutators_invoked_total",
			Help:      "Total number of definition mutators invoked",
		}),

		rediscoveryPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wirekit",
			Subsystem: "bootstrap",
			Name:      "rediscovery_passes_total",
			Help:      "Total number of mutator rediscovery passes",
		}),

		interceptorsInstalled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wirekit",
			Subsystem: "bootstrap",
			Name:      "interceptors_installed",
			Help:      "Interceptors installed on the chain by the last run",
		}),

		definitionsResolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wirekit",
			Subsystem: "bootstrap",
			Name:      "definitions_resolved",
			Help:      "Definitions in the registry after the last run",
		}),
	}

	if err := registry.RegisterHistogramVec("bootstrap", "phase_duration_seconds", m.phaseDuration); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("bootstrap", "mutators_invoked_total", m.mutatorsInvoked); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("bootstrap", "rediscovery_passes_total", m.rediscoveryPasses); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge("bootstrap", "interceptors_installed", m.interceptorsInstalled); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge("bootstrap", "definitions_resolved", m.definitionsResolved); err != nil {
		return nil, err
	}

	return m, nil
}

// All recording methods are nil-safe so callers never branch on whether
// metrics are enabled.

func (m *bootstrapMetrics) observePhase(phase string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(elapsed.Seconds())
}

func (m *bootstrapMetrics) mutatorInvoked() {
	if m == nil {
		return
	}
	m.mutatorsInvoked.Inc()
}

func (m *bootstrapMetrics) rediscoveryPass() {
	if m == nil {
		return
	}
	m.rediscoveryPasses.Inc()
}

func (m *bootstrapMetrics) recordChainLength(count int) {
	if m == nil {
		return
	}
	m.interceptorsInstalled.Set(float64(count))
}

func (m *bootstrapMetrics) recordDefinitions(count int) {
	if m == nil {
		return
	}
	m.definitionsResolved.Set(float64(count))
}
