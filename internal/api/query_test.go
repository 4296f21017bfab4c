package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sam171002/Text-2-SQL/internal/config"
	"github.com/sam171002/Text-2-SQL/internal/pipeline"
	"github.com/sam171002/Text-2-SQL/internal/query"
	"github.com/sam171002/Text-2-SQL/internal/schema"
	"github.com/sam171002/Text-2-SQL/internal/sqlgen"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("text2sql-api", mapLookup(map[string]string{}))
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}
	return cfg
}

func TestQueryEndpoint(t *testing.T) {
	fake := &fakePipeline{outcome: pipeline.Outcome{
		SQL:     "SELECT TOP 10 region, count(*) as count from patients group by region",
		Columns: []string{"region", "count"},
		Records: []query.Record{
			{"region": "north", "count": float64(12)},
		},
	}}
	h := NewHandler(testConfig(t), Dependencies{Pipeline: fake})

	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"question": "patients per region"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if fake.question != "patients per region" {
		t.Fatalf("question = %q", fake.question)
	}

	var response queryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.SQL != fake.outcome.SQL {
		t.Fatalf("sql = %q", response.SQL)
	}
	if len(response.Records) != 1 || response.Records[0]["region"] != "north" {
		t.Fatalf("records = %v", response.Records)
	}
}

func TestQueryEndpointRequiresQuestion(t *testing.T) {
	h := NewHandler(testConfig(t), Dependencies{Pipeline: &fakePipeline{}})

	for _, body := range []string{`{}`, `{"question": "   "}`, `not json`} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(body)))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d", body, rr.Code)
		}
	}
}

func TestQueryEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"generation failed", fmt.Errorf("wrap: %w", sqlgen.ErrGenerationFailed), http.StatusBadRequest, "GENERATION_FAILED"},
		{"schema unavailable", fmt.Errorf("wrap: %w", schema.ErrUnavailable), http.StatusInternalServerError, "SCHEMA_UNAVAILABLE"},
		{"connection unavailable", fmt.Errorf("wrap: %w", query.ErrConnectionUnavailable), http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE"},
		{"execution failed", fmt.Errorf("wrap: %w", query.ErrExecution), http.StatusInternalServerError, "QUERY_EXECUTION_FAILED"},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(testConfig(t), Dependencies{Pipeline: &fakePipeline{err: tc.err}})

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"question": "q"}`)))

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			var payload map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if payload["error_code"] != tc.wantCode {
				t.Fatalf("error_code = %v, want %s", payload["error_code"], tc.wantCode)
			}
		})
	}
}

func TestQueryEndpointNotConfigured(t *testing.T) {
	h := NewHandler(testConfig(t), Dependencies{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"question": "q"}`)))

	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rr.Code)
	}
}
