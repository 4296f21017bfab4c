package sqlgen

import (
	"fmt"
	"strings"

	"github.com/sam171002/Text-2-SQL/internal/schema"
)

// PromptSpec carries the generation rules that are data, not code: the
// default row cap and the SQL dialect of the execution backend.
type PromptSpec struct {
	RowCap  int
	Dialect string
}

func (s PromptSpec) dialectName() string {
	switch strings.ToLower(strings.TrimSpace(s.Dialect)) {
	case "tsql", "sqlserver", "mssql":
		return "Microsoft SQL Server (T-SQL)"
	case "postgres", "postgresql", "pgx":
		return "PostgreSQL"
	case "duckdb":
		return "DuckDB"
	default:
		return s.Dialect
	}
}

// ComposePrompt builds the generation request from the rendered schema
// and the verbatim question.
func ComposePrompt(question string, desc schema.Description, spec PromptSpec) string {
	return fmt.Sprintf(`You are an expert SQL generator.
Given the following database schema and user question, generate a valid SQL query for %s.

--- DATABASE SCHEMA ---
%s
--- USER QUESTION ---
%s

Rules:
1. Use only table and column names declared in the schema above.
2. Return only pure SQL (no explanations, no markdown, no commentary).
3. Use only SELECT (or WITH ... SELECT). Never modify data.
4. If the user did not specify a limit, cap the result at %d rows.

Return only the SQL query, nothing else.`, spec.dialectName(), desc.Render(), question, spec.RowCap)
}
