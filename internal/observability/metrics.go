// Package observability exposes the service's Prometheus metrics.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status"},
	)

	layarResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "layar_responses_total",
			Help: "GetPointsOfInterest responses by layer and errorCode.",
		},
		[]string{"layer", "code"},
	)

	layerFetchSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "layer_fetch_seconds",
			Help:    "Latency of layer fetch calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"layer"},
	)

	storeOpSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_op_seconds",
			Help:    "Latency of backing store operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"op", "outcome"},
	)

	ingestLagSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_lag_seconds",
			Help: "Approximate ingest lag: now - message timestamp.",
		},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveLayarResponse(layer string, code int) {
	layarResponsesTotal.WithLabelValues(layer, strconv.Itoa(code)).Inc()
}

func ObserveLayerFetch(layer string, durationSeconds float64) {
	layerFetchSeconds.WithLabelValues(layer).Observe(durationSeconds)
}

func ObserveStoreOp(op string, err error, durationSeconds float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	storeOpSeconds.WithLabelValues(op, outcome).Observe(durationSeconds)
}

func SetIngestLagSeconds(lag float64) {
	ingestLagSeconds.Set(lag)
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
