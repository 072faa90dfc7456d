package metrics

import "github.com/prometheus/client_golang/prometheus"

// Indexing Prometheus metrics.
var (
	IndexDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recipesearch",
			Name:      "index_documents",
			Help:      "Number of documents in the current index snapshot",
		},
	)

	IndexRebuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recipesearch",
			Name:      "index_rebuild_duration_seconds",
			Help:      "Index rebuild duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
	)

	IndexRebuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipesearch",
			Name:      "index_rebuilds_total",
			Help:      "Total index rebuilds",
		},
		[]string{"status"}, // "ok" / "error"
	)

	IndexScanFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recipesearch",
			Name:      "index_scan_failures_total",
			Help:      "Total PDF files skipped due to extraction failures",
		},
	)

	ExtractionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipesearch",
			Name:      "extraction_cache_total",
			Help:      "Extraction cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var indexingMetricsRegistered bool

// RegisterIndexingMetrics registers Prometheus indexing metrics. Must be called once from main.
func RegisterIndexingMetrics() {
	if indexingMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexDocuments)
	prometheus.MustRegister(IndexRebuildDuration)
	prometheus.MustRegister(IndexRebuildsTotal)
	prometheus.MustRegister(IndexScanFailuresTotal)
	prometheus.MustRegister(ExtractionCacheTotal)
	indexingMetricsRegistered = true
}
