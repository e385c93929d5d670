// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperationLatency records document store latency by backend and operation.
	StoreOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vc7day_store_operation_latency_seconds",
		Help:    "Document store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation"})

	// StoreErrors counts failed document store operations.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vc7day_store_errors_total",
		Help: "Total number of document store errors",
	}, []string{"backend", "operation"})

	// CacheLookups counts document cache lookups by tier and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vc7day_cache_lookups_total",
		Help: "Document cache lookups by tier and result",
	}, []string{"tier", "result"})

	// VideoViews counts watch events.
	VideoViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vc7day_video_views_total",
		Help: "Total number of video views recorded",
	})

	// VideoLikes counts like events.
	VideoLikes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vc7day_video_likes_total",
		Help: "Total number of video likes recorded",
	})

	// AdminMutations counts admin changes by entity and action.
	AdminMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vc7day_admin_mutations_total",
		Help: "Total admin mutations by entity and action",
	}, []string{"entity", "action"})

	// LiveCounterEvents counts live-counter websocket events by type.
	LiveCounterEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vc7day_live_counter_events_total",
		Help: "Live-counter WebSocket events by type",
	}, []string{"event_type"})
)

// TrackStore returns a function that records latency for a store operation
// and counts it as failed when *errp is non-nil. Use with defer.
func TrackStore(backend, operation string, errp *error) func() {
	start := time.Now()
	return func() {
		StoreOperationLatency.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
		if errp != nil && *errp != nil {
			StoreErrors.WithLabelValues(backend, operation).Inc()
		}
	}
}
