package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records repository query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkspace_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// LikeToggles counts like toggles by resulting state ("liked" or "unliked").
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkspace_like_toggles_total",
		Help: "Total number of like toggles by outcome",
	}, []string{"outcome"})

	// FollowToggles counts follow toggles by resulting state.
	FollowToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkspace_follow_toggles_total",
		Help: "Total number of follow toggles by outcome",
	}, []string{"outcome"})

	// EngagementConflicts counts toggles rejected as conflicting or transient.
	EngagementConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkspace_engagement_conflicts_total",
		Help: "Total number of engagement operations aborted by a conflict",
	}, []string{"operation"})

	// NotificationsCreated counts persisted notifications by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkspace_notifications_created_total",
		Help: "Total number of notifications persisted",
	}, []string{"type"})

	// NotificationFailures counts best-effort notification failures by stage.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkspace_notification_failures_total",
		Help: "Total number of notification writes or deliveries that failed",
	}, []string{"stage"})

	// PrunedRows counts rows removed by retention sweeps.
	PrunedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkspace_pruned_rows_total",
		Help: "Total number of rows removed by retention sweeps",
	}, []string{"table"})

	// WebSocketConnectionsTotal is the gauge of active notification sockets.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "inkspace_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkspace_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)
