package export

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/sam171002/Text-2-SQL/internal/query"
)

func sampleRecords() ([]string, []query.Record) {
	columns := []string{"region", "count"}
	records := []query.Record{
		{"region": "north", "count": int64(12)},
		{"region": "south", "count": int64(7)},
	}
	return columns, records
}

func TestEncodeCSV(t *testing.T) {
	columns, records := sampleRecords()

	data, err := EncodeCSV(columns, records)
	if err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if lines[0] != "region,count" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "north,12" {
		t.Fatalf("first row = %q", lines[1])
	}
}

func TestEncodeCSVNilValue(t *testing.T) {
	data, err := EncodeCSV([]string{"a"}, []query.Record{{"a": nil}})
	if err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}
	if strings.TrimSpace(string(data)) != "a\n" && strings.TrimSpace(string(data)) != "a" {
		t.Fatalf("unexpected csv: %q", string(data))
	}
}

func TestEncodeCSVRequiresColumns(t *testing.T) {
	if _, err := EncodeCSV(nil, nil); err == nil {
		t.Fatal("expected error for empty columns")
	}
}

func TestEncodeParquetRoundTrip(t *testing.T) {
	columns, records := sampleRecords()

	data, err := EncodeParquet(columns, records)
	if err != nil {
		t.Fatalf("EncodeParquet() error = %v", err)
	}

	group := parquet.Group{}
	for _, column := range columns {
		group[column] = parquet.Optional(parquet.String())
	}
	schema := parquet.NewSchema("result", group)

	reader := parquet.NewGenericReader[map[string]any](bytes.NewReader(data), schema)
	defer reader.Close()
	if reader.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", reader.NumRows())
	}
	rows := make([]map[string]any, 2)
	for i := range rows {
		rows[i] = map[string]any{}
	}
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		t.Fatalf("read parquet rows: %v", err)
	}
	if n != 2 {
		t.Fatalf("read %d rows, want 2", n)
	}
	if rows[0]["region"] != "north" || rows[0]["count"] != "12" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
}
