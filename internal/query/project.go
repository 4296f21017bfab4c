package query

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch marks a row whose length differs from the column
// count. The executor's contract makes this unreachable; the check is
// defensive.
var ErrShapeMismatch = errors.New("result shape mismatch")

// Record is one row keyed by column name.
type Record map[string]any

// Project converts a columnar result into row-oriented records by
// zipping column names with each row's values. Pure function; the
// caller owns the returned records.
func Project(result Result) ([]Record, error) {
	records := make([]Record, 0, len(result.Rows))
	for i, row := range result.Rows {
		if len(row) != len(result.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d columns", ErrShapeMismatch, i, len(row), len(result.Columns))
		}
		record := make(Record, len(result.Columns))
		for j, column := range result.Columns {
			record[column] = row[j]
		}
		records = append(records, record)
	}
	return records, nil
}
