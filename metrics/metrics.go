// Package metrics exposes Prometheus counters for image analysis and chat traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "neuronova"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	extractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Total number of image analysis calls",
		},
		[]string{"status"},
	)

	extractionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Duration of image analysis calls in seconds",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	chatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Total number of chat requests by outcome",
		},
		[]string{"status"},
	)

	chatChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_chunks_total",
			Help:      "Total number of streamed answer chunks",
		},
	)

	transcriptEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcript_entries_total",
			Help:      "Total number of transcript entries appended",
		},
		[]string{"speaker"},
	)
)

func init() {
	prometheus.MustRegister(
		extractionsTotal,
		extractionDuration,
		chatRequestsTotal,
		chatChunksTotal,
		transcriptEntriesTotal,
	)
}

// RecordExtraction records one image analysis call.
func RecordExtraction(status string, seconds float64) {
	extractionsTotal.WithLabelValues(status).Inc()
	extractionDuration.Observe(seconds)
}

func RecordChatRequest(status string) {
	chatRequestsTotal.WithLabelValues(status).Inc()
}

func RecordChatChunk() {
	chatChunksTotal.Inc()
}

func RecordTranscriptEntry(speaker string) {
	transcriptEntriesTotal.WithLabelValues(speaker).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
