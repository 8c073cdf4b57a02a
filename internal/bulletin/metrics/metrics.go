package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the bulletin aggregators.
type Metrics struct {
	PagesFetched      *prometheus.CounterVec
	FetchFailures     *prometheus.CounterVec
	CeilingReached    *prometheus.CounterVec
	RowsAccumulated   *prometheus.HistogramVec
	AggregateDuration *prometheus.HistogramVec
}

// New creates bulletin metrics registered with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers bulletin metrics with reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PagesFetched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patentdesk_bulletin_pages_fetched_total",
			Help: "Pages requested from the bulletin table",
		}, []string{"operation"}),
		FetchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patentdesk_bulletin_fetch_failures_total",
			Help: "Page fetches that failed and stopped an aggregation",
		}, []string{"operation"}),
		CeilingReached: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patentdesk_bulletin_ceiling_reached_total",
			Help: "Aggregations stopped by the page ceiling or safety limit",
		}, []string{"operation"}),
		RowsAccumulated: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patentdesk_bulletin_rows_accumulated",
			Help:    "Rows accumulated per aggregation",
			Buckets: []float64{0, 10, 100, 1000, 5000, 10000, 20000, 50000},
		}, []string{"operation"}),
		AggregateDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patentdesk_bulletin_aggregate_duration_seconds",
			Help:    "Duration of a full aggregation loop",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncPage(op string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(op).Inc()
}

func (m *Metrics) IncFailure(op string) {
	if m == nil {
		return
	}
	m.FetchFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) IncCeiling(op string) {
	if m == nil {
		return
	}
	m.CeilingReached.WithLabelValues(op).Inc()
}

// ObserveAggregate records rows accumulated and elapsed time since start.
func (m *Metrics) ObserveAggregate(op string, rows int, start time.Time) {
	if m == nil {
		return
	}
	m.RowsAccumulated.WithLabelValues(op).Observe(float64(rows))
	m.AggregateDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
