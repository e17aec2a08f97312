package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by route template, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focushub_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "focushub_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// WebSocketConnections is the gauge of open WebSocket connections on this instance.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "focushub_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts events delivered to local clients by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focushub_websocket_events_total",
		Help: "Total WebSocket events delivered by type",
	}, []string{"event_type"})

	// WebSocketDrops counts events dropped because a client's buffer was full.
	WebSocketDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "focushub_websocket_drops_total",
		Help: "Total WebSocket events dropped due to backpressure",
	})

	// FlashMatchEvents counts match lifecycle transitions.
	FlashMatchEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focushub_flashmatch_events_total",
		Help: "FlashMatch lifecycle events",
	}, []string{"event"})

	// ImportedRecords counts rows inserted by guest imports by kind.
	ImportedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focushub_import_records_total",
		Help: "Rows inserted by guest data imports",
	}, []string{"kind"})

	// RateLimited counts rejected requests by limiter name.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focushub_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"limiter"})

	// RedisErrors counts Redis failures by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focushub_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})
)

// FlashMatch lifecycle event labels
const (
	MatchCreated   = "match_created"
	MatchStarted   = "match_started"
	MatchCompleted = "match_completed"
	RoundCompleted = "round_completed"
	RoundExpired   = "round_expired"
	AnswerGraded   = "answer_graded"
)
