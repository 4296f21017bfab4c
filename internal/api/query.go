package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sam171002/Text-2-SQL/internal/query"
	"github.com/sam171002/Text-2-SQL/internal/schema"
	"github.com/sam171002/Text-2-SQL/internal/sqlgen"
)

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	SQL     string         `json:"sql"`
	Records []query.Record `json:"records"`
}

func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	question, ok := decodeQuestion(deps, w, r)
	if !ok {
		return
	}

	outcome, err := deps.Pipeline.Run(r.Context(), question)
	if err != nil {
		writePipelineError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{SQL: outcome.SQL, Records: outcome.Records})
}

func decodeQuestion(deps Dependencies, w http.ResponseWriter, r *http.Request) (string, bool) {
	if deps.Pipeline == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "QUERY_NOT_CONFIGURED", "query pipeline is not configured", false, nil)
		return "", false
	}

	var request queryRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid query request body", false, map[string]any{"details": err.Error()})
		return "", false
	}
	question := strings.TrimSpace(request.Question)
	if question == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return "", false
	}
	return question, true
}

func writePipelineError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sqlgen.ErrGenerationFailed):
		writeError(ctx, w, http.StatusBadRequest, "GENERATION_FAILED", "could not produce a safe SQL statement for the question", false, map[string]any{"details": err.Error()})
	case errors.Is(err, schema.ErrUnavailable):
		writeError(ctx, w, http.StatusInternalServerError, "SCHEMA_UNAVAILABLE", "database schema description is unavailable", true, map[string]any{"details": err.Error()})
	case errors.Is(err, query.ErrConnectionUnavailable):
		writeError(ctx, w, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "could not connect to the execution backend", true, map[string]any{"details": err.Error()})
	case errors.Is(err, query.ErrExecution):
		writeError(ctx, w, http.StatusInternalServerError, "QUERY_EXECUTION_FAILED", "the generated statement failed to execute", false, map[string]any{"details": err.Error()})
	default:
		writeError(ctx, w, http.StatusInternalServerError, "INTERNAL", "unexpected pipeline failure", true, map[string]any{"details": err.Error()})
	}
}
