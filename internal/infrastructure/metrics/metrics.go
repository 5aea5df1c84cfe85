// Package metrics exposes Prometheus collectors for allocation runs.
//
// Collectors live on a private registry so tests and multiple servers in
// one process never collide on the global default registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "payopt"

// Metrics holds the allocation collectors
type Metrics struct {
	registry *prometheus.Registry

	ordersTotal  *prometheus.CounterVec
	chargedTotal *prometheus.CounterVec
	unpaidTotal  prometheus.Counter
	runsTotal    *prometheus.CounterVec
	runDuration  prometheus.Histogram
	batchOrders  prometheus.Histogram
}

// New creates a Metrics instance with its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ordersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_total",
			Help:      "Orders processed, by the rule that decided them.",
		}, []string{"rule"}),
		chargedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charged_amount_total",
			Help:      "Amount charged to each payment method.",
		}, []string{"method"}),
		unpaidTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unpaid_amount_total",
			Help:      "Remainders of partially paid orders that no method could cover.",
		}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Allocation runs, by source and status.",
		}, []string{"source", "status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent allocating one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		batchOrders: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_orders",
			Help:      "Number of orders per batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.ordersTotal,
		m.chargedTotal,
		m.unpaidTotal,
		m.runsTotal,
		m.runDuration,
		m.batchOrders,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveOrder records one order's deciding rule
func (m *Metrics) ObserveOrder(rule string) {
	if m == nil {
		return
	}
	m.ordersTotal.WithLabelValues(rule).Inc()
}

// ObserveCharge records an amount charged to a method
func (m *Metrics) ObserveCharge(methodID string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.chargedTotal.WithLabelValues(methodID).Add(amount.InexactFloat64())
}

// ObserveUnpaid records an uncovered remainder
func (m *Metrics) ObserveUnpaid(amount decimal.Decimal) {
	if m == nil || !amount.IsPositive() {
		return
	}
	m.unpaidTotal.Add(amount.InexactFloat64())
}

// ObserveRun records a finished batch
func (m *Metrics) ObserveRun(source, status string, orders int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(source, status).Inc()
	m.runDuration.Observe(elapsed.Seconds())
	m.batchOrders.Observe(float64(orders))
}
