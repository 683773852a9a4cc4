package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog read-view metrics.
var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog",
			Name:      "query_duration_seconds",
			Help:      "Catalog read view duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"view", "outcome"},
	)

	ViewCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "view_cache_total",
			Help:      "Aggregate view cache lookups",
		},
		[]string{"view", "result"}, // "hit" / "miss" / "error"
	)
)

func init() {
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(ViewCacheTotal)
}

// ObserveQuery records one read view execution started at start.
func ObserveQuery(view string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	QueryDuration.WithLabelValues(view, outcome).Observe(time.Since(start).Seconds())
}

// CacheResult counts a cache lookup for view.
func CacheResult(view, result string) {
	ViewCacheTotal.WithLabelValues(view, result).Inc()
}
