// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal tracks processed conversation turns by intent and mode.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turns_total",
			Help: "Total conversation turns processed",
		},
		[]string{"tenant_id", "intent", "mode"},
	)

	// IntentClassifications tracks classifier outcomes.
	IntentClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_classifications_total",
			Help: "Total intent classifications",
		},
		[]string{"intent"},
	)

	// EnrichmentDuration tracks per-source enrichment dispatch duration.
	EnrichmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Enrichment source dispatch duration",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"kind", "status"},
	)

	// EnrichmentOutcomes tracks enrichment results by kind and status.
	EnrichmentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_outcomes_total",
			Help: "Enrichment dispatch outcomes",
		},
		[]string{"kind", "status"},
	)

	// LLMDuration tracks text-generation call duration.
	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_duration_seconds",
			Help:    "Text-generation call duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60},
		},
		[]string{"provider", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"provider", "direction"},
	)

	// JournalPublishFailures tracks turn journal publish failures.
	JournalPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_publish_failures_total",
			Help: "Failed turn journal publishes",
		},
	)

	// ConversationsTotal tracks total conversations created.
	ConversationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversations_total",
			Help: "Total conversations created",
		},
		[]string{"tenant_id"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTurn records a processed turn.
func RecordTurn(tenantID, intent, mode string) {
	TurnsTotal.WithLabelValues(tenantID, intent, mode).Inc()
}

// RecordEnrichment records one enrichment dispatch outcome.
func RecordEnrichment(kind, status string, duration float64) {
	EnrichmentDuration.WithLabelValues(kind, status).Observe(duration)
	EnrichmentOutcomes.WithLabelValues(kind, status).Inc()
}

// RecordLLM records metrics for a text-generation call.
func RecordLLM(provider, status string, duration float64, tokensIn, tokensOut int) {
	LLMDuration.WithLabelValues(provider, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(provider, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(provider, "out").Add(float64(tokensOut))
}
