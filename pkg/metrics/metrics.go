package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// outcome: created, user_conflict, room_conflict, rejected, error
	BookingsTotal *prometheus.CounterVec

	// 0 closed, 1 half-open, 2 open
	BreakerState *prometheus.GaugeVec

	// routing_key, result: ok, failed
	EventsPublished *prometheus.CounterVec

	// result: patched, missing, malformed, failed
	ReceiptsConsumed *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Booking creation attempts by outcome",
			},
			[]string{"outcome"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state per downstream service (0 closed, 1 half-open, 2 open)",
			},
			[]string{"service"},
		),
		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "Events published to the broker",
			},
			[]string{"routing_key", "result"},
		),
		ReceiptsConsumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receipt_events_consumed_total",
				Help: "Receipt-generated events consumed",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.BreakerState,
		m.EventsPublished,
		m.ReceiptsConsumed,
	)

	return m
}

// NewNop returns collectors registered nowhere, for tests and optional wiring.
func NewNop() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}
