// Package metrics provides Prometheus instrumentation for the broker
// engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsProcessed counts market events fully processed by the broker.
	EventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simbroker_events_processed_total",
		Help: "Total number of market events processed",
	})

	// ExecutionsTotal counts fills produced, partitioned by side.
	ExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simbroker_executions_total",
		Help: "Total number of fills produced",
	}, []string{"side"})

	// OrdersPlaced counts orders accepted by the engine, by variant.
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simbroker_orders_placed_total",
		Help: "Total orders placed, by order variant",
	}, []string{"variant"})

	// OrdersClosed counts orders reaching a terminal status.
	OrdersClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simbroker_orders_closed_total",
		Help: "Total orders closed, by terminal status",
	}, []string{"status"})

	// OpenOrders tracks the number of currently open orders.
	OpenOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "simbroker_open_orders",
		Help: "Number of currently open orders",
	})

	// EventLatency tracks per-event processing time.
	EventLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "simbroker_event_latency_seconds",
		Help:    "Time spent processing one market event",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
	})

	// StreamClients tracks connected WebSocket observers.
	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "simbroker_stream_clients",
		Help: "Number of connected WebSocket clients",
	})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
