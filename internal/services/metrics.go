package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus instruments of the cleaning service.
type Metrics struct {
	RunsTotal   *prometheus.CounterVec
	RowsRemoved prometheus.Counter
	RunDuration prometheus.Histogram
}

// NewMetrics builds and registers the service metrics on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tsclean",
			Name:      "runs_total",
			Help:      "Cleaning runs by outcome.",
		}, []string{"outcome"}),
		RowsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tsclean",
			Name:      "rows_removed_total",
			Help:      "Rows removed by filtering and outlier dropping.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tsclean",
			Name:      "run_duration_seconds",
			Help:      "End-to-end cleaning run duration.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.RunsTotal, m.RowsRemoved, m.RunDuration)
	return m
}
