package observability

import "github.com/prometheus/client_golang/prometheus"

// Requests here are dominated by model calls and database connect
// retries, so the latency buckets run much wider than DefBuckets: a
// single request may legally spend three generation attempts plus three
// 5s-spaced connection attempts.
var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "text2sql_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "text2sql_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(requestCount, requestLatency)
}
