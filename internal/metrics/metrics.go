package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gofresh"

// Metrics holds the storefront's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CartMutations     *prometheus.CounterVec
	OrdersCreated     *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
	StorageFaults     *prometheus.CounterVec
	Requests          *prometheus.CounterVec
	LatencyMS         *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid global state.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "mutations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"operation"}),
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Orders created by delivery tier.",
		}, []string{"tier"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Applied order status transitions by target status.",
		}, []string{"status"}),
		StorageFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "faults_total",
			Help:      "Key-value store faults by operation and key.",
		}, []string{"operation", "key"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.CartMutations,
		m.OrdersCreated,
		m.StatusTransitions,
		m.StorageFaults,
		m.Requests,
		m.LatencyMS,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// CartMutation counts a cart operation.
func (m *Metrics) CartMutation(operation string) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(operation).Inc()
}

// OrderCreated counts a new order.
func (m *Metrics) OrderCreated(rocket bool) {
	if m == nil {
		return
	}
	tier := "standard"
	if rocket {
		tier = "rocket"
	}
	m.OrdersCreated.WithLabelValues(tier).Inc()
}

// StatusTransition counts an applied transition.
func (m *Metrics) StatusTransition(status string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(status).Inc()
}

// StorageFault counts a failed store read or write.
func (m *Metrics) StorageFault(operation, key string) {
	if m == nil {
		return
	}
	m.StorageFaults.WithLabelValues(operation, key).Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, status string, durationMS float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, status).Inc()
	m.LatencyMS.WithLabelValues(route).Observe(durationMS)
}
