package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetracker_fetch_attempts_total",
			Help: "Total live fetch attempts, including retries",
		},
	)

	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetracker_cache_hits_total",
			Help: "Total page cache hits",
		},
	)

	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetracker_cache_misses_total",
			Help: "Total page cache misses",
		},
	)

	TargetsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricetracker_targets_processed_total",
			Help: "Targets processed per run outcome",
		},
		[]string{"status"},
	)

	AlertsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricetracker_alerts_sent_total",
			Help: "Total price alerts delivered",
		},
	)
)

// Start registers the collectors and serves /metrics on the given port.
func Start(port string) {
	prometheus.MustRegister(
		FetchAttemptsTotal,
		CacheHitsTotal,
		CacheMissesTotal,
		TargetsProcessedTotal,
		AlertsSentTotal,
	)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
