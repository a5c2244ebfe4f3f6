package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "iris"

type HTTPCollector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPCollector(reg prometheus.Registerer) *HTTPCollector {
	factory := promauto.With(reg)

	return &HTTPCollector{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (c *HTTPCollector) Observe(method, route, status string, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, status).Inc()
	c.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

type PredictionCollector struct {
	predictions *prometheus.CounterVec
	latency     prometheus.Histogram
	confidence  prometheus.Histogram
	cacheHits   prometheus.Counter
	journalErrs prometheus.Counter
	journalDrop prometheus.Counter
}

func NewPredictionCollector(reg prometheus.Registerer) *PredictionCollector {
	factory := promauto.With(reg)

	return &PredictionCollector{
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "predictions_total",
			Help:      "Predictions served by predicted species.",
		}, []string{"species"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "inference_duration_seconds",
			Help:      "Model inference latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), //nolint:mnd
		}),
		confidence: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "prediction_confidence",
			Help:      "Probability of the predicted species.",
			Buckets:   []float64{0.34, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99},
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "cache_hits_total",
			Help:      "Predictions answered from the memo cache.",
		}),
		journalErrs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "errors_total",
			Help:      "Predictions that could not be handed to the journal.",
		}),
		journalDrop: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "dropped_total",
			Help:      "Predictions dropped because the journal buffer was full.",
		}),
	}
}

func (c *PredictionCollector) ObservePrediction(species string, confidence float64) {
	c.predictions.WithLabelValues(species).Inc()
	c.confidence.Observe(confidence)
}

// ObserveInference records time spent in the model. Cache hits skip it.
func (c *PredictionCollector) ObserveInference(elapsed time.Duration) {
	c.latency.Observe(elapsed.Seconds())
}

func (c *PredictionCollector) CacheHit() {
	c.cacheHits.Inc()
}

func (c *PredictionCollector) JournalError() {
	c.journalErrs.Inc()
}

func (c *PredictionCollector) JournalDropped() {
	c.journalDrop.Inc()
}
