package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const columnsQuery = `
SELECT table_name, column_name, data_type, is_nullable, COALESCE(column_default, '')
FROM information_schema.columns
WHERE table_schema NOT IN ('information_schema', 'pg_catalog', 'sys')
ORDER BY table_name, ordinal_position`

// Extract introspects the connected database and builds the description
// the prompt composer consumes. Column order follows ordinal position as
// reported by the backend.
func Extract(ctx context.Context, db *sql.DB) (Description, error) {
	rows, err := db.QueryContext(ctx, columnsQuery)
	if err != nil {
		return nil, fmt.Errorf("introspect columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	desc := Description{}
	for rows.Next() {
		var table, column, dataType, nullable, defaultValue string
		if err := rows.Scan(&table, &column, &dataType, &nullable, &defaultValue); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		desc[table] = append(desc[table], Column{
			Name:     column,
			Type:     dataType,
			Nullable: strings.EqualFold(nullable, "YES"),
			Default:  defaultValue,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}
	if len(desc) == 0 {
		return nil, fmt.Errorf("no user tables found")
	}
	return desc, nil
}
