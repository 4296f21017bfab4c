package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sam171002/Text-2-SQL/internal/query"
	"github.com/sam171002/Text-2-SQL/internal/schema"
	"github.com/sam171002/Text-2-SQL/internal/sqlgen"
)

type staticLoader struct {
	desc schema.Description
	err  error
}

func (s staticLoader) Load(context.Context) (schema.Description, error) {
	return s.desc, s.err
}

type staticModel struct {
	response string
}

func (m staticModel) Complete(context.Context, string) (string, error) {
	return m.response, nil
}

type recordingExecutor struct {
	statement string
	result    query.Result
	err       error
}

func (e *recordingExecutor) Execute(_ context.Context, statement string) (query.Result, error) {
	e.statement = statement
	return e.result, e.err
}

func testDescription() schema.Description {
	return schema.Description{
		"patients": {
			{Name: "id", Type: "int"},
			{Name: "region", Type: "varchar"},
		},
	}
}

func TestRunEndToEnd(t *testing.T) {
	executor := &recordingExecutor{
		result: query.Result{
			Columns: []string{"region", "count"},
			Rows: [][]any{
				{"north", int64(12)},
				{"south", int64(7)},
			},
			Duration: 3 * time.Millisecond,
		},
	}
	generator := &sqlgen.Generator{
		Model:    staticModel{response: "```sql\nselect region, count(*) as count from patients group by region\n```"},
		Rewriter: sqlgen.Rewriter{RowCap: 10},
	}
	p, err := New(staticLoader{desc: testDescription()}, generator, executor, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := p.Run(context.Background(), "patients per region")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "SELECT TOP 10 region, count(*) as count from patients group by region"
	if out.SQL != want {
		t.Fatalf("sql = %q, want %q", out.SQL, want)
	}
	if executor.statement != want {
		t.Fatalf("executed %q, want %q", executor.statement, want)
	}
	if len(out.Columns) != 2 || out.Columns[0] != "region" || out.Columns[1] != "count" {
		t.Fatalf("columns = %v", out.Columns)
	}
	if len(out.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(out.Records))
	}
	if out.Records[0]["region"] != "north" || out.Records[0]["count"] != int64(12) {
		t.Fatalf("unexpected first record: %v", out.Records[0])
	}
}

func TestRunSchemaUnavailable(t *testing.T) {
	executor := &recordingExecutor{}
	generator := &sqlgen.Generator{
		Model:    staticModel{response: "SELECT 1 FROM t"},
		Rewriter: sqlgen.Rewriter{RowCap: 10},
	}
	p, err := New(staticLoader{err: schema.ErrUnavailable}, generator, executor, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.Run(context.Background(), "anything"); !errors.Is(err, schema.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if executor.statement != "" {
		t.Fatalf("executor ran despite schema failure: %q", executor.statement)
	}
}

func TestRunGenerationFailed(t *testing.T) {
	executor := &recordingExecutor{}
	generator := &sqlgen.Generator{
		Model:    staticModel{response: "DROP TABLE patients"},
		Rewriter: sqlgen.Rewriter{RowCap: 10},
	}
	p, err := New(staticLoader{desc: testDescription()}, generator, executor, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.Run(context.Background(), "destroy"); !errors.Is(err, sqlgen.ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
	if executor.statement != "" {
		t.Fatalf("executor ran despite generation failure: %q", executor.statement)
	}
}

func TestRunExecutionFailure(t *testing.T) {
	executor := &recordingExecutor{err: query.ErrConnectionUnavailable}
	generator := &sqlgen.Generator{
		Model:    staticModel{response: "SELECT region FROM patients"},
		Rewriter: sqlgen.Rewriter{RowCap: 10},
	}
	p, err := New(staticLoader{desc: testDescription()}, generator, executor, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.Run(context.Background(), "regions"); !errors.Is(err, query.ErrConnectionUnavailable) {
		t.Fatalf("err = %v, want ErrConnectionUnavailable", err)
	}
}
