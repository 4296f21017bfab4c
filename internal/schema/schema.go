package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Column describes one column of a table as recorded in the schema
// artifact produced by the extraction tool.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Default  string `json:"default"`
}

// Description maps table names to their ordered column descriptors.
// It is immutable after load; the pipeline never mutates it.
type Description map[string][]Column

func (d Description) Tables() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render serializes the description into the text block embedded in
// generation prompts. Tables are sorted by name so the same description
// always renders identically regardless of map iteration order.
func (d Description) Render() string {
	var b strings.Builder
	for _, table := range d.Tables() {
		fmt.Fprintf(&b, "TABLE %s\n", table)
		for _, col := range d[table] {
			nullability := "NOT NULL"
			if col.Nullable {
				nullability = "NULL"
			}
			fmt.Fprintf(&b, "  - %s %s %s", col.Name, col.Type, nullability)
			if col.Default != "" {
				fmt.Fprintf(&b, " DEFAULT %s", col.Default)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
