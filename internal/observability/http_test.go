package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sam171002/Text-2-SQL/internal/config"
)

func TestInstrumentPreservesIncomingTraceID(t *testing.T) {
	h := Instrument(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := TraceIDFromContext(r.Context()); got != "trace-1" {
			t.Fatalf("TraceIDFromContext() = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set(traceHeader, "trace-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get(traceHeader); got != "trace-1" {
		t.Fatalf("trace header = %q", got)
	}
}

func TestInstrumentGeneratesTraceID(t *testing.T) {
	h := Instrument(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if TraceIDFromContext(r.Context()) == "" {
			t.Fatal("expected generated trace id")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if rr.Header().Get(traceHeader) == "" {
		t.Fatal("expected X-Trace-ID header")
	}
}

func TestInstrumentLogsRequestWithTraceID(t *testing.T) {
	cfg, err := config.Load("text2sql-api", func(key string) (string, bool) {
		values := map[string]string{
			"TEXT2SQL_LOG_JSON":  "true",
			"TEXT2SQL_LOG_LEVEL": "info",
		}
		value, ok := values[key]
		return value, ok
	})
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}

	var buf bytes.Buffer
	logger := NewLogger(cfg, &buf)

	h := Instrument(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader("{}"))
	req.Header.Set(traceHeader, "trace-9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (line %q)", err, buf.String())
	}
	if entry["msg"] != "http_request" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["trace_id"] != "trace-9" {
		t.Fatalf("trace_id = %v", entry["trace_id"])
	}
	if entry["status"] != float64(http.StatusAccepted) {
		t.Fatalf("status = %v", entry["status"])
	}
	if entry["bytes"] != float64(2) {
		t.Fatalf("bytes = %v", entry["bytes"])
	}
}

func TestLoggerStampsTraceIDFromContext(t *testing.T) {
	cfg, err := config.Load("text2sql-api", func(key string) (string, bool) {
		if key == "TEXT2SQL_LOG_JSON" {
			return "true", true
		}
		return "", false
	})
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}

	var buf bytes.Buffer
	logger := NewLogger(cfg, &buf)

	logger.InfoContext(ContextWithTraceID(context.Background(), "abc123"), "statement accepted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["trace_id"] != "abc123" {
		t.Fatalf("trace_id = %v", entry["trace_id"])
	}
	if entry["service"] != "text2sql-api" {
		t.Fatalf("service = %v", entry["service"])
	}
}

func TestLoggerOmitsTraceIDWithoutContextValue(t *testing.T) {
	cfg, err := config.Load("text2sql-api", func(key string) (string, bool) {
		if key == "TEXT2SQL_LOG_JSON" {
			return "true", true
		}
		return "", false
	})
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}

	var buf bytes.Buffer
	logger := NewLogger(cfg, &buf)
	logger.Info("no request scope")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if _, present := entry["trace_id"]; present {
		t.Fatalf("unexpected trace_id in %v", entry)
	}
}

func TestTraceIDContextHelpers(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "abc123")
	if got := TraceIDFromContext(ctx); got != "abc123" {
		t.Fatalf("TraceIDFromContext() = %q", got)
	}
}
