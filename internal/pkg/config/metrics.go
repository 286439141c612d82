package config

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics provides parameterized Prometheus metrics for configuration management.
//
// Metrics generated (parameterized by component name):
//   - {component}_config_load_timestamp: Unix timestamp of last configuration load
//   - {component}_config_fallbacks_total: Total fallback operations
//   - {component}_config_fallback_active: 1 if any fallback active, 0 otherwise
//
// Metrics are registered with the default registry. Creating two instances with the
// same component name panics.
type ConfigMetrics struct {
	LoadTimestamp  prometheus.Gauge
	FallbacksTotal prometheus.Counter
	FallbackActive prometheus.Gauge

	componentName string
}

// NewConfigMetrics creates a new ConfigMetrics instance with component-specific metric names.
func NewConfigMetrics(componentName string) *ConfigMetrics {
	return newConfigMetrics(componentName, promauto.With(prometheus.DefaultRegisterer))
}

func newConfigMetrics(componentName string, factory promauto.Factory) *ConfigMetrics {
	return &ConfigMetrics{
		LoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", componentName),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", componentName),
		}),

		FallbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_fallbacks_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration fallback operations", componentName),
		}),

		FallbackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_fallback_active", componentName),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", componentName),
		}),

		componentName: componentName,
	}
}

// RecordLoadTimestamp records the current time as the configuration load timestamp.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordWarnings counts one fallback per warning and updates the active flag.
func (m *ConfigMetrics) RecordWarnings(warnings []string) {
	m.FallbacksTotal.Add(float64(len(warnings)))
	if len(warnings) > 0 {
		m.FallbackActive.Set(1)
	} else {
		m.FallbackActive.Set(0)
	}
}
