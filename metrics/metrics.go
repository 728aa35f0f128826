// Package metrics exposes the pipeline's observability counters and an
// optional HTTP endpoint serving them in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// NotebookRecoveries counts notebook documents that existed but could
	// not be parsed and were replaced with a fresh one. Repeated increments
	// point at persistent corruption an operator should look into.
	NotebookRecoveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadforge_notebook_recoveries_total",
		Help: "Corrupt notebook documents discarded and recreated.",
	})

	// ContextRetries counts re-entries into retrieval after an insufficient
	// context judgment.
	ContextRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadforge_context_retries_total",
		Help: "Retrieval retries triggered by context evaluation.",
	})

	// CodeRetries counts re-entries into generation after an invalid code
	// judgment.
	CodeRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadforge_code_retries_total",
		Help: "Generation retries triggered by code verification.",
	})

	// LLMCalls counts chat completions per provider.
	LLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadforge_llm_calls_total",
		Help: "LLM chat calls issued, labeled by provider.",
	}, []string{"provider"})

	// EmbeddingCacheHits counts query embeddings served from the cache.
	EmbeddingCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadforge_embedding_cache_hits_total",
		Help: "Query embeddings served from the Redis cache.",
	})
)

// Handler returns an HTTP handler exposing /metrics.
func Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Serve blocks serving the metrics endpoint on addr.
func Serve(addr string) error {
	return http.ListenAndServe(addr, Handler())
}
