package metrics

import "github.com/prometheus/client_golang/prometheus"

// Classification and TCP protocol metrics.
var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "requests_total",
			Help:      "Total number of classification requests",
		},
		[]string{"transport", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "intentd",
			Name:      "request_duration_seconds",
			Help:      "Classification request handling duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"transport"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "intentd",
			Name:      "tcp_active_connections",
			Help:      "Number of TCP connections currently being handled",
		},
	)

	AcceptErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "tcp_accept_errors_total",
			Help:      "Total TCP accept failures",
		},
	)

	PredictionConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "intentd",
			Name:      "prediction_confidence",
			Help:      "Confidence of successful predictions",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1},
		},
	)
)

// Training metrics.
var (
	TrainingRecordsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "training_records_skipped_total",
			Help:      "Dataset records skipped while building the training set",
		},
		[]string{"reason"},
	)

	TrainingFeatures = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "intentd",
			Name:      "training_features",
			Help:      "Number of features in the last built training set",
		},
	)
)

// Word vector metrics.
var (
	WordVectorLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "wordvec_lookups_total",
			Help:      "Word vector lookups by source and result",
		},
		[]string{"source", "result"}, // "hit" / "miss" / "error"
	)

	WordVectorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "intentd",
			Name:      "wordvec_request_duration_seconds",
			Help:      "Remote word vector request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	WordVectorCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "wordvec_cache_total",
			Help:      "Word vector cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registered bool

// Register registers the intentd Prometheus metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ActiveConnections)
	prometheus.MustRegister(AcceptErrorsTotal)
	prometheus.MustRegister(PredictionConfidence)
	prometheus.MustRegister(TrainingRecordsSkippedTotal)
	prometheus.MustRegister(TrainingFeatures)
	prometheus.MustRegister(WordVectorLookupsTotal)
	prometheus.MustRegister(WordVectorRequestDuration)
	prometheus.MustRegister(WordVectorCacheTotal)
	registered = true
}
