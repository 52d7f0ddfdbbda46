package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for provider attempts.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// ProviderAttempts counts stream-open attempts per provider.
	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "serenity",
			Subsystem: "gateway",
			Name:      "provider_attempts_total",
			Help:      "Completion stream attempts by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// Fallbacks counts requests that left the primary provider.
	Fallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "serenity",
			Subsystem: "gateway",
			Name:      "fallbacks_total",
			Help:      "Requests rerouted to the fallback provider",
		},
	)

	// StreamedChunks counts forwarded deltas per transport.
	StreamedChunks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "serenity",
			Subsystem: "gateway",
			Name:      "streamed_chunks_total",
			Help:      "Text deltas forwarded to clients",
		},
		[]string{"transport"},
	)

	// StreamAborts counts streams that ended with a mid-stream error.
	StreamAborts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "serenity",
			Subsystem: "gateway",
			Name:      "stream_aborts_total",
			Help:      "Streams cut short by an upstream or client error",
		},
		[]string{"transport"},
	)

	// MoodEntriesSynced counts entries accepted by the sync endpoint.
	MoodEntriesSynced = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "serenity",
			Subsystem: "mood",
			Name:      "entries_synced_total",
			Help:      "Mood entries persisted through sync",
		},
	)

	// RequestsTotal counts HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "serenity",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration observes handler latency; for streams this covers the whole stream.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "serenity",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)
)
