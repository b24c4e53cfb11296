package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and embedding collectors. Registered explicitly from the
// composition root (no init()) so tests can exercise the packages that
// increment them without touching the default registry.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrank",
			Name:      "searches_total",
			Help:      "Total searches by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	SearchDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrank",
			Name:      "search_degraded_total",
			Help:      "Searches that lost a collaborator, by reason",
		},
		[]string{"reason"},
	)

	SelectorDecisionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrank",
			Name:      "selector_decision_total",
			Help:      "Adaptive selector policy decisions (mass vs floor)",
		},
		[]string{"policy"},
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docrank",
			Name:      "search_candidates",
			Help:      "Fused candidate count per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docrank",
			Name:      "search_results",
			Help:      "Returned result count per search",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 20, 50},
		},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docrank",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration by mode",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrank",
			Name:      "embedding_requests_total",
			Help:      "Embedding API requests by provider, model and status",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docrank",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding API request duration",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrank",
			Name:      "embedding_tokens_total",
			Help:      "Embedding tokens consumed by provider, model and kind",
		},
		[]string{"provider", "model", "kind"},
	)
)

// RegisterSearchMetrics registers all search and embedding collectors.
func RegisterSearchMetrics() {
	prometheus.MustRegister(
		SearchesTotal,
		SearchDegradedTotal,
		SelectorDecisionTotal,
		SearchCandidates,
		SearchResults,
		SearchDuration,
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
	)
}
