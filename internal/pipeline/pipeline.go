// Package pipeline wires schema loading, SQL generation and execution
// into the single entry point the transport layer consumes. The
// contract is all-or-nothing: the caller gets the executed SQL with its
// projected records, or exactly one failure from the error taxonomy
// (schema.ErrUnavailable, sqlgen.ErrGenerationFailed,
// query.ErrConnectionUnavailable, query.ErrExecution).
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sam171002/Text-2-SQL/internal/query"
	"github.com/sam171002/Text-2-SQL/internal/schema"
)

type SchemaLoader interface {
	Load(ctx context.Context) (schema.Description, error)
}

type Generator interface {
	Generate(ctx context.Context, question string, desc schema.Description) (string, error)
}

type Executor interface {
	Execute(ctx context.Context, statement string) (query.Result, error)
}

type Outcome struct {
	SQL     string
	Columns []string
	Records []query.Record
}

type Pipeline struct {
	Schema    SchemaLoader
	Generator Generator
	Executor  Executor
	Logger    *slog.Logger
}

func New(loader SchemaLoader, generator Generator, executor Executor, logger *slog.Logger) (*Pipeline, error) {
	if loader == nil {
		return nil, fmt.Errorf("schema loader is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{Schema: loader, Generator: generator, Executor: executor, Logger: logger}, nil
}

// Run turns one natural-language question into an executed statement
// and its records. Each invocation owns its own schema reference,
// attempt counters and connection; nothing is shared across requests.
func (p *Pipeline) Run(ctx context.Context, question string) (Outcome, error) {
	desc, err := p.Schema.Load(ctx)
	if err != nil {
		return Outcome{}, err
	}

	statement, err := p.Generator.Generate(ctx, question, desc)
	if err != nil {
		return Outcome{}, err
	}
	p.Logger.Info("statement accepted", slog.String("sql", statement))

	result, err := p.Executor.Execute(ctx, statement)
	if err != nil {
		return Outcome{}, err
	}

	records, err := query.Project(result)
	if err != nil {
		return Outcome{}, err
	}
	p.Logger.Info("question answered",
		slog.Int("rows", len(records)),
		slog.String("duration", result.Duration.String()),
	)
	return Outcome{SQL: statement, Columns: result.Columns, Records: records}, nil
}
