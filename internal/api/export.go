package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sam171002/Text-2-SQL/internal/export"
)

// handleExport answers the question like /v1/query does and streams the
// records back as a file instead of JSON. Format comes from the
// "format" query parameter, defaulting to csv.
func handleExport(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "parquet" {
		writeError(r.Context(), w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", fmt.Sprintf("unsupported export format %q", format), false, nil)
		return
	}

	question, ok := decodeQuestion(deps, w, r)
	if !ok {
		return
	}

	outcome, err := deps.Pipeline.Run(r.Context(), question)
	if err != nil {
		writePipelineError(r.Context(), w, err)
		return
	}

	var (
		data        []byte
		contentType string
		filename    string
	)
	switch format {
	case "csv":
		data, err = export.EncodeCSV(outcome.Columns, outcome.Records)
		contentType = "text/csv"
		filename = "result.csv"
	case "parquet":
		data, err = export.EncodeParquet(outcome.Columns, outcome.Records)
		contentType = "application/vnd.apache.parquet"
		filename = "result.parquet"
	}
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "EXPORT_FAILED", "failed to encode result", false, map[string]any{"details": err.Error()})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
