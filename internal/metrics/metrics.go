package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	HistoryErrorsTotal prometheus.Counter

	RateLimitHitsTotal *prometheus.CounterVec
}

// New registers the collectors with the default registry. Calling it twice
// in one process panics; tests should use NewWithRegistry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticket_bot_requests_total",
				Help: "Total number of bot commands processed",
			},
			[]string{"command", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ticket_bot_request_duration_seconds",
				Help:    "Bot command duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"command"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ticket_bot_requests_in_flight",
				Help: "Number of commands currently being processed",
			},
		),

		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticket_bot_discovery_requests_total",
				Help: "Total number of Discovery API requests",
			},
			[]string{"resource", "status"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ticket_bot_discovery_request_duration_seconds",
				Help:    "Discovery API request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"resource"},
		),

		HistoryErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ticket_bot_history_write_errors_total",
				Help: "Total number of search records that failed to persist",
			},
		),

		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticket_bot_rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"user_id"},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor serves the metrics gathered by g instead of the default registry.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(command, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(command, status).Inc()
	m.RequestDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func (m *Metrics) RecordAPIRequest(resource, status string, duration time.Duration) {
	m.APIRequestsTotal.WithLabelValues(resource, status).Inc()
	m.APIRequestDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

func (m *Metrics) RecordHistoryError() {
	m.HistoryErrorsTotal.Inc()
}

func (m *Metrics) RecordRateLimitHit(userID string) {
	m.RateLimitHitsTotal.WithLabelValues(userID).Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
