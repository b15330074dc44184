package observability

import "github.com/prometheus/client_golang/prometheus"

// Domain metrics for the reply pipeline. HTTP-level metrics live in the
// middleware package; these describe what the assistant decided.
var (
	// Replies counts answers by decision path (product, general, more_info, ...).
	Replies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_replies_total",
			Help: "Replies produced, by decision path.",
		},
		[]string{"path"},
	)

	// Fallbacks counts fallback replies by reason.
	Fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_fallbacks_total",
			Help: "Fallback replies, by reason.",
		},
		[]string{"reason"},
	)

	// DetectedLanguage counts inbound messages by detected language.
	DetectedLanguage = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_detected_language_total",
			Help: "Inbound messages, by detected language.",
		},
		[]string{"language"},
	)

	// LLMDuration observes completion latency by outcome (ok|error|empty).
	LLMDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbot_llm_request_duration_seconds",
			Help:    "Language model completion latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 25, 40},
		},
		[]string{"outcome"},
	)

	// CatalogEntries is the number of catalog files currently cached.
	CatalogEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatbot_catalog_entries",
			Help: "Catalog files currently loaded.",
		},
	)

	// AuditDropped counts audit entries dropped because the queue was full.
	AuditDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbot_audit_dropped_total",
			Help: "Audit entries dropped on a full queue.",
		},
	)
)

func init() {
	prometheus.MustRegister(Replies, Fallbacks, DetectedLanguage, LLMDuration, CatalogEntries, AuditDropped)
}
