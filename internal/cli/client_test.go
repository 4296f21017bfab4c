package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIClientDecodesErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_code": "GENERATION_FAILED", "message": "no safe statement", "trace_id": "abc123"}`))
	}))
	defer server.Close()

	client := newAPIClient(&rootOptions{serverURL: server.URL})
	_, err := client.do(context.Background(), http.MethodPost, "/v1/query", map[string]string{"question": "q"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *apiError", err)
	}
	if apiErr.ErrorCode != "GENERATION_FAILED" || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected apiError: %+v", apiErr)
	}
	if apiErr.TraceID != "abc123" {
		t.Fatalf("trace id = %q", apiErr.TraceID)
	}
}

func TestAPIClientSendsKey(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok", "service": "text2sql-api"}`))
	}))
	defer server.Close()

	client := newAPIClient(&rootOptions{serverURL: server.URL + "/", apiKey: "k1"})
	var health struct {
		Status string `json:"status"`
	}
	if err := client.doJSON(context.Background(), http.MethodGet, "/v1/health", nil, &health); err != nil {
		t.Fatalf("doJSON: %v", err)
	}
	if gotKey != "k1" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if health.Status != "ok" {
		t.Fatalf("status = %q", health.Status)
	}
}

func TestRenderCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"north", "north"},
		{float64(12), "12"},
		{float64(1.5), "1.5"},
		{true, "true"},
	}
	for _, tc := range tests {
		if got := renderCell(tc.in); got != tc.want {
			t.Fatalf("renderCell(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
