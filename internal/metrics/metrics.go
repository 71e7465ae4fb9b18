package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	UpstreamFetchTotal *prometheus.CounterVec
	RefreshDuration    prometheus.Histogram
	RefreshPairsTotal  *prometheus.CounterVec
	HistoryAppends     *prometheus.CounterVec
}

// NewMetrics registers all collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		UpstreamFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_fetch_total",
				Help: "Total number of upstream rate fetches by outcome",
			},
			[]string{"outcome"},
		),

		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "refresh_duration_seconds",
				Help:    "Duration of a favorites refresh in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		RefreshPairsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "refresh_pairs_total",
				Help: "Total number of resolved pairs by result state",
			},
			[]string{"state"},
		),

		HistoryAppends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "history_appends_total",
				Help: "Total number of history append attempts by result",
			},
			[]string{"result"},
		),
	}
}
