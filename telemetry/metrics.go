/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts facade operations by outcome and records their latency.
type Metrics struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a private registry. An empty
// namespace defaults to "retailstore".
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "retailstore"
	}

	m := &Metrics{registry: prometheus.NewRegistry()}

	m.operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Storage operations by component, operation and outcome",
		},
		[]string{"component", "op", "outcome"},
	)

	m.duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of storage operations",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"component", "op"},
	)

	m.registry.MustRegister(m.operations, m.duration)
	return m
}

// Registry returns the registry holding the collectors, for exposition.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Operations returns the outcome counter.
func (m *Metrics) Operations() *prometheus.CounterVec {
	return m.operations
}

// Observe records one operation.
func (m *Metrics) Observe(component, op, outcome string, elapsed time.Duration) {
	m.operations.WithLabelValues(component, op, outcome).Inc()
	m.duration.WithLabelValues(component, op).Observe(elapsed.Seconds())
}
