package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ayan",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ayan",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	identifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ayan",
			Subsystem: "recognition",
			Name:      "identifications_total",
			Help:      "Identification pipeline runs by terminal outcome.",
		},
		[]string{"outcome"},
	)

	identificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ayan",
			Subsystem: "recognition",
			Name:      "identification_duration_seconds",
			Help:      "Duration of identification pipeline runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"outcome"},
	)

	enrichments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ayan",
			Subsystem: "recognition",
			Name:      "enrichments_total",
			Help:      "Enrichment lookups by result.",
		},
		[]string{"result"},
	)

	persistenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ayan",
			Subsystem: "state",
			Name:      "persistence_failures_total",
			Help:      "Failed writes of persisted gamification records.",
		},
		[]string{"key"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		identifications,
		identificationDuration,
		enrichments,
		persistenceFailures,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordIdentification(outcome string, duration time.Duration) {
	identifications.WithLabelValues(outcome).Inc()
	identificationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func RecordEnrichment(result string) {
	enrichments.WithLabelValues(result).Inc()
}

func RecordPersistenceFailure(key string) {
	persistenceFailures.WithLabelValues(key).Inc()
}
