package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reelnote"

var (
	// TierFallbacks counts operations served by the fallback tier after the primary failed.
	TierFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tier_fallbacks_total",
		Help:      "Operations that fell back from the primary storage tier.",
	}, []string{"store", "operation"})

	// TierExhausted counts operations for which every storage tier failed.
	TierExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tier_exhausted_total",
		Help:      "Operations that failed on every storage tier.",
	}, []string{"store", "operation"})

	// TierMigrated counts reviews moved from the local tier into the relational tier.
	TierMigrated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tier_migrated_total",
		Help:      "Local tier records migrated to the relational tier, by outcome.",
	}, []string{"outcome"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
