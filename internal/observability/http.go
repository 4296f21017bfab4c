package observability

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const traceHeader = "X-Trace-ID"

// Instrument wraps a handler with the full request instrumentation in
// one pass: trace ID resolution, prometheus counters and one access log
// line per request. The route set of this service is small and fixed,
// so the raw path is safe as a metric label. A nil logger disables the
// access log but keeps tracing and metrics.
func Instrument(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(traceHeader)
			if traceID == "" {
				traceID = newTraceID()
			}
			ctx := ContextWithTraceID(r.Context(), traceID)
			w.Header().Set(traceHeader, traceID)

			start := time.Now()
			trace := &responseTrace{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(trace, r.WithContext(ctx))
			elapsed := time.Since(start)

			status := strconv.Itoa(trace.status)
			requestCount.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			requestLatency.WithLabelValues(r.Method, r.URL.Path, status).Observe(elapsed.Seconds())

			if logger != nil {
				logger.InfoContext(ctx, "http_request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
					slog.Int("status", trace.status),
					slog.String("duration", elapsed.String()),
					slog.Int("bytes", trace.bytes),
				)
			}
		})
	}
}

// responseTrace captures what the handler wrote so the deferred
// instrumentation can report it.
type responseTrace struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (t *responseTrace) WriteHeader(status int) {
	t.status = status
	t.ResponseWriter.WriteHeader(status)
}

func (t *responseTrace) Write(body []byte) (int, error) {
	n, err := t.ResponseWriter.Write(body)
	t.bytes += n
	return n, err
}

func newTraceID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(buf)
}
