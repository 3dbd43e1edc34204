package metrics

import (
	"net/http"

	"github.com/Atomic996/Bougtobstore/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds custom Prometheus metrics.
type MetricsManager struct {
	Registry                 *prometheus.Registry
	ListingsPublishedTotal   prometheus.Counter
	SubmissionsRejectedTotal *prometheus.CounterVec   // by gate: validation, profanity, classifier
	SubmissionFailuresTotal  prometheus.Counter
	StatusUpdatesTotal       *prometheus.CounterVec   // by new status
	ModerationChecksTotal    *prometheus.CounterVec   // by check and outcome
	ModerationLatency        *prometheus.HistogramVec // by check
}

func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()

	listingsPublishedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_published_total",
		Help:      "Total number of listings that passed both gates and were persisted.",
	})
	submissionsRejectedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "submissions_rejected_total",
		Help:      "Total number of submissions rejected, by gate.",
	}, []string{"gate"})
	submissionFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "submission_failures_total",
		Help:      "Total number of submissions that passed moderation but failed to persist.",
	})
	statusUpdatesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "status_updates_total",
		Help:      "Total number of owner status changes, by new status.",
	}, []string{"status"})
	moderationChecksTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "moderation_checks_total",
		Help:      "Moderation sub-check outcomes (safe, unsafe, fail_open), by check.",
	}, []string{"check", "outcome"})
	moderationLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "moderation_check_latency_seconds",
		Help:      "Latency of remote moderation sub-checks, by check.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"check"})

	registry.MustRegister(
		listingsPublishedTotal,
		submissionsRejectedTotal,
		submissionFailuresTotal,
		statusUpdatesTotal,
		moderationChecksTotal,
		moderationLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:                 registry,
		ListingsPublishedTotal:   listingsPublishedTotal,
		SubmissionsRejectedTotal: submissionsRejectedTotal,
		SubmissionFailuresTotal:  submissionFailuresTotal,
		StatusUpdatesTotal:       statusUpdatesTotal,
		ModerationChecksTotal:    moderationChecksTotal,
		ModerationLatency:        moderationLatency,
	}
}

// StartMetricsServer starts an HTTP server exposing the registry on /metrics.
func StartMetricsServer(port string, appLogger logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Infof("Prometheus metrics server starting on port %s", port)

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
