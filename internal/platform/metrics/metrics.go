package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide HTTP and domain counters.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	FirmsCreated    prometheus.Counter
	ContractsSent   *prometheus.CounterVec
	RateLimited     prometheus.Counter
}

// New creates and registers all Prometheus metrics with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patentdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		FirmsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "patentdesk_firms_created_total",
			Help: "Total number of firm records created",
		}),
		ContractsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patentdesk_contracts_sent_total",
			Help: "Contract email requests by outcome",
		}, []string{"outcome"}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "patentdesk_rate_limited_total",
			Help: "Requests rejected by the search rate limiter",
		}),
	}
}

func (m *Metrics) IncrementFirmsCreated() {
	if m == nil {
		return
	}
	m.FirmsCreated.Inc()
}

func (m *Metrics) IncrementContractsSent(outcome string) {
	if m == nil {
		return
	}
	m.ContractsSent.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
