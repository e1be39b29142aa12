package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/wirekit/errors"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()

	require.NotNil(t, registry)
	require.NotNil(t, registry.PrometheusRegistry())
}

func TestRegisterCounter(t *testing.T) {
	registry := NewRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wirekit",
		Name:      "test_counter_total",
		Help:      "Test counter",
	})

	err := registry.RegisterCounter("bootstrap", "test_counter", counter)
	require.NoError(t, err)
}

func TestRegisterCounter_Duplicate(t *testing.T) {
	registry := NewRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wirekit",
		Name:      "dup_counter_total",
		Help:      "Test counter",
	})

	require.NoError(t, registry.RegisterCounter("bootstrap", "dup", counter))

	err := registry.RegisterCounter("bootstrap", "dup", counter)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	registry := NewRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wirekit",
		Name:      "test_gauge",
		Help:      "Test gauge",
	})
	require.NoError(t, registry.RegisterGauge("registry", "test_gauge", gauge))

	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wirekit",
		Name:      "test_histogram_seconds",
		Help:      "Test histogram",
	})
	require.NoError(t, registry.RegisterHistogram("registry", "test_histogram", histogram))
}

func TestRegisterVecs(t *testing.T) {
	registry := NewRegistry()

	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wirekit",
		Name:      "test_counter_vec_total",
		Help:      "Test counter vec",
	}, []string{"phase"})
	require.NoError(t, registry.RegisterCounterVec("bootstrap", "counter_vec", counterVec))

	gaugeVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wirekit",
		Name:      "test_gauge_vec",
		Help:      "Test gauge vec",
	}, []string{"phase"})
	require.NoError(t, registry.RegisterGaugeVec("bootstrap", "gauge_vec", gaugeVec))

	histogramVec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wirekit",
		Name:      "test_histogram_vec_seconds",
		Help:      "Test histogram vec",
	}, []string{"phase"})
	require.NoError(t, registry.RegisterHistogramVec("bootstrap", "histogram_vec", histogramVec))
}

func TestUnregister(t *testing.T) {
	registry := NewRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wirekit",
		Name:      "unregister_counter_total",
		Help:      "Test counter",
	})
	require.NoError(t, registry.RegisterCounter("bootstrap", "unreg", counter))

	assert.True(t, registry.Unregister("bootstrap", "unreg"))
	assert.False(t, registry.Unregister("bootstrap", "unreg"))

	// Re-registration after unregister should succeed
	require.NoError(t, registry.RegisterCounter("bootstrap", "unreg", counter))
}
