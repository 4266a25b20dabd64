package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for UpstreamRequestsTotal.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeMalformed = "malformed"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eden_http_requests_total",
		Help: "Total number of HTTP requests by method, route, and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eden_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// UpstreamRequestsTotal counts calls to vendor APIs. service is one of
	// gemini, elevenlabs, thingspeak, camera, influxdb.
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eden_upstream_requests_total",
		Help: "Total number of outbound vendor calls by service and outcome.",
	}, []string{"service", "outcome"})

	// SpeechFailuresTotal counts failed syntheses by diagnosed cause.
	SpeechFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eden_speech_failures_total",
		Help: "Total number of failed speech syntheses by cause.",
	}, []string{"cause"})

	CameraStreamsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eden_camera_streams_active",
		Help: "Number of camera streams currently relayed to clients.",
	})

	CameraBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eden_camera_bytes_total",
		Help: "Total number of camera stream bytes relayed to clients.",
	})

	// ArchiveWriteFailTotal counts telemetry entries the archive rejected.
	ArchiveWriteFailTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eden_archive_write_fail_total",
		Help: "Total number of failed telemetry archive writes.",
	})
)

// ObserveUpstream records one vendor call.
func ObserveUpstream(service, outcome string) {
	UpstreamRequestsTotal.WithLabelValues(service, outcome).Inc()
}
