package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for fingerprint and relocation
// runs. Each Metrics value carries its own registry, so tests and
// repeated runs never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	BlocksFingerprinted prometheus.Counter
	BytesHashed         prometheus.Counter
	BlocksLocated       prometheus.Counter
	BlocksMissing       prometheus.Counter
	CandidatesProbed    prometheus.Counter
	BlockDuration       prometheus.Histogram
}

// NewMetrics creates and registers all metrics on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		BlocksFingerprinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockmark_blocks_fingerprinted_total",
			Help: "Blocks partitioned and hashed by write runs",
		}),

		BytesHashed: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockmark_bytes_hashed_total",
			Help: "Bytes fed through the digest across all hash computations",
		}),

		BlocksLocated: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockmark_blocks_located_total",
			Help: "Blocks relocated with a verified hash match",
		}),

		BlocksMissing: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockmark_blocks_missing_total",
			Help: "Blocks that could not be relocated",
		}),

		CandidatesProbed: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockmark_candidates_probed_total",
			Help: "Candidate offsets hash-verified during relocation",
		}),

		BlockDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "blockmark_block_duration_seconds",
			Help:    "Per-block processing time across write and read runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

// Handler exposes the metrics in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr in the background for long runs.
func (m *Metrics) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	go http.ListenAndServe(addr, mux)
}
