// Package metrics holds the Prometheus collectors for the service: HTTP
// request accounting, database query timing and booking domain counters.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates every collector the service exposes
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbConnections   *prometheus.GaugeVec

	bookingsCreatedTotal   *prometheus.CounterVec
	bookingsRejectedTotal  *prometheus.CounterVec
	bookingsCancelledTotal *prometheus.CounterVec
	bookingsExtendedTotal  *prometheus.CounterVec
	sweepTransitionsTotal  *prometheus.CounterVec
}

// New registers and returns the service collectors. service is attached as a
// constant label so several instances can share one Prometheus.
func New(service string) *Metrics {
	labels := prometheus.Labels{"service": service}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests processed.",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),

		dbConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state.",
			ConstLabels: labels,
		}, []string{"state"}),

		bookingsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings approved and recorded in the ledger.",
			ConstLabels: labels,
		}, []string{}),

		bookingsRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_rejected_total",
			Help:        "Booking requests rejected by the policy engine.",
			ConstLabels: labels,
		}, []string{"reason"}),

		bookingsCancelledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_cancelled_total",
			Help:        "Bookings cancelled by their owners.",
			ConstLabels: labels,
		}, []string{}),

		bookingsExtendedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_extended_total",
			Help:        "Bookings successfully extended.",
			ConstLabels: labels,
		}, []string{}),

		sweepTransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "sweep_transitions_total",
			Help:        "Expired bookings transitioned to completed by the sweep.",
			ConstLabels: labels,
		}, []string{}),
	}
}

// ObserveHTTPRequest records a completed HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery records a completed database query
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBConnections records connection pool gauges
func (m *Metrics) SetDBConnections(open, idle, inUse int) {
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
}

// IncBookingCreated counts an approved booking
func (m *Metrics) IncBookingCreated() {
	m.bookingsCreatedTotal.WithLabelValues().Inc()
}

// IncBookingRejected counts a rejection with its policy reason
func (m *Metrics) IncBookingRejected(reason string) {
	m.bookingsRejectedTotal.WithLabelValues(reason).Inc()
}

// IncBookingCancelled counts a cancellation
func (m *Metrics) IncBookingCancelled() {
	m.bookingsCancelledTotal.WithLabelValues().Inc()
}

// IncBookingExtended counts a successful extension
func (m *Metrics) IncBookingExtended() {
	m.bookingsExtendedTotal.WithLabelValues().Inc()
}

// AddSweepTransitions counts bookings completed by an expiry sweep
func (m *Metrics) AddSweepTransitions(n int) {
	if n > 0 {
		m.sweepTransitionsTotal.WithLabelValues().Add(float64(n))
	}
}

// Nop is a recorder that discards every observation; used when metrics are
// disabled so callers never have to nil-check.
type Nop struct{}

func (Nop) ObserveHTTPRequest(string, string, int, time.Duration) {}
func (Nop) ObserveDBQuery(string, time.Duration)                  {}
func (Nop) SetDBConnections(int, int, int)                        {}
func (Nop) IncBookingCreated()                                    {}
func (Nop) IncBookingRejected(string)                             {}
func (Nop) IncBookingCancelled()                                  {}
func (Nop) IncBookingExtended()                                   {}
func (Nop) AddSweepTransitions(int)                               {}
