package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated counts orders accepted at checkout, by payment method.
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Total number of orders created",
		},
		[]string{"method"},
	)

	// OrdersPaid counts pending -> paid transitions, by payment method.
	OrdersPaid = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_paid_total",
			Help: "Total number of orders settled as paid",
		},
		[]string{"method"},
	)

	OrderAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_order_amount_rupiah",
			Help:    "Order amounts in rupiah",
			Buckets: []float64{10000, 25000, 50000, 100000, 250000, 500000, 1000000},
		},
	)

	// StoreFallbacks counts order table reads and writes swallowed after a storage failure.
	StoreFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_store_fallbacks_total",
			Help: "Order storage operations degraded to in-memory behaviour",
		},
		[]string{"operation"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_active_sessions",
			Help: "Number of live storefront sessions",
		},
	)

	ActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_active_order_subscriptions",
			Help: "Number of order status polls currently running",
		},
	)
)
