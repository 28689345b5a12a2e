// Package metrics exposes Prometheus counters for contact intake.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeAccepted       = "accepted"
	OutcomeInvalid        = "invalid"
	OutcomeMalformed      = "malformed"
	OutcomeUnconfigured   = "unconfigured"
	OutcomeDeliveryFailed = "delivery_failed"
	OutcomeError          = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	submissions      *prometheus.CounterVec
	deliveryDuration *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
}

// New creates the collectors on a private registry, so several instances
// (one per test) never collide.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions by form source and outcome",
		}, []string{"source", "outcome"}),
		deliveryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contact_delivery_duration_seconds",
			Help:    "Time spent handing the notification email to the provider",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "path", "status"}),
	}
	m.registry.MustRegister(m.submissions, m.deliveryDuration, m.httpRequests)
	return m
}

func (m *Metrics) Submission(source, outcome string) {
	m.submissions.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) Delivery(provider string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.deliveryDuration.WithLabelValues(provider, result).Observe(d.Seconds())
}

func (m *Metrics) Request(method, path string, status int) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
