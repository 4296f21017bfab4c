// Package export encodes projected query results into downloadable
// formats. Columns keep the order the backend reported; every value is
// rendered as text so the output is stable regardless of driver types.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/sam171002/Text-2-SQL/internal/query"
)

func EncodeCSV(columns []string, records []query.Record) ([]byte, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("columns are required")
	}

	buf := bytes.NewBuffer(nil)
	writer := csv.NewWriter(buf)
	if err := writer.Write(columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = renderValue(record[column])
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeParquet builds a string-typed schema from the result columns at
// runtime. The column set is only known after execution, so the schema
// cannot be a compile-time struct.
func EncodeParquet(columns []string, records []query.Record) ([]byte, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("columns are required")
	}

	group := parquet.Group{}
	for _, column := range columns {
		group[column] = parquet.Optional(parquet.String())
	}
	schema := parquet.NewSchema("result", group)

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(columns))
		for _, column := range columns {
			if record[column] == nil {
				continue
			}
			row[column] = renderValue(record[column])
		}
		rows = append(rows, row)
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[map[string]any](buf, schema)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

func renderValue(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
