package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload outcomes recorded by UploadsTotal.
const (
	OutcomeSuccess   = "success"
	OutcomeStatus    = "status_error"
	OutcomeTransport = "transport_error"
	OutcomeNoFile    = "no_file"
	OutcomeRejected  = "rejected_selection"
	OutcomeBusy      = "in_progress"
)

var (
	// --- Inbound (server) metrics ---
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_errors_total",
			Help: "Total number of HTTP requests resulting in client or server errors.",
		},
		[]string{"method", "route", "code"},
	)

	// --- Outbound (analysis endpoint) metrics ---
	HTTPClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_requests_total",
			Help: "Total number of requests sent to the analysis endpoint.",
		},
		[]string{"method", "code"},
	)
	HTTPClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_client_request_duration_seconds",
			Help:    "Latency of requests sent to the analysis endpoint.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "code"},
	)

	// --- Domain metrics ---
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "json_script_uploads_total",
			Help: "Upload triggers by outcome.",
		},
		[]string{"outcome"},
	)
	ReportsExportedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "json_script_reports_exported_total",
			Help: "Analysis reports exported by format.",
		},
		[]string{"format"},
	)

	CPUCount = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "process_cpu_count",
			Help: "Number of CPU cores available.",
		},
		func() float64 { return float64(runtime.NumCPU()) },
	)
)

// MetricsRegister builds the registry served by the metrics server.
func MetricsRegister() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestErrorsTotal,
		HTTPClientRequestsTotal,
		HTTPClientRequestDuration,
		UploadsTotal,
		ReportsExportedTotal,
		CPUCount,
	)

	return reg
}
