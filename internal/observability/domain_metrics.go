package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	generationAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "text2sql_generation_attempts_total",
			Help: "Total number of SQL generation attempts against the model.",
		},
	)
	generationRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "text2sql_generation_rejections_total",
			Help: "Total number of rejected candidate statements by pipeline stage.",
		},
		[]string{"stage"},
	)
	generationExhaustedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "text2sql_generation_exhausted_total",
			Help: "Total number of requests that exhausted the generation attempt budget.",
		},
	)
	connectRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "text2sql_db_connect_retries_total",
			Help: "Total number of failed database connection attempts.",
		},
	)
	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "text2sql_query_duration_seconds",
			Help:    "Latency of validated statement execution.",
			Buckets: prometheus.DefBuckets,
		},
	)
	queryRowsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "text2sql_query_rows_returned",
			Help:    "Row counts returned by executed statements.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
)

func init() {
	prometheus.MustRegister(
		generationAttemptsTotal,
		generationRejectionsTotal,
		generationExhaustedTotal,
		connectRetriesTotal,
		queryDurationSeconds,
		queryRowsReturned,
	)
}

func IncrementGenerationAttempt() {
	generationAttemptsTotal.Inc()
}

func IncrementGenerationRejection(stage string) {
	generationRejectionsTotal.WithLabelValues(stage).Inc()
}

func IncrementGenerationExhausted() {
	generationExhaustedTotal.Inc()
}

func IncrementConnectRetry() {
	connectRetriesTotal.Inc()
}

func ObserveQueryDuration(duration time.Duration) {
	queryDurationSeconds.Observe(duration.Seconds())
}

func ObserveQueryRows(count int) {
	queryRowsReturned.Observe(float64(count))
}
