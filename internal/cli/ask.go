package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type askResponse struct {
	SQL     string           `json:"sql"`
	Records []map[string]any `json:"records"`
}

func newAskCommand(opts *rootOptions) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a natural-language question with live data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			client := newAPIClient(opts)

			spinner, _ := pterm.DefaultSpinner.Start("Generating and executing SQL...")
			var response askResponse
			err := client.doJSON(cmd.Context(), http.MethodPost, "/v1/query", map[string]string{"question": question}, &response)
			if err != nil {
				if spinner != nil {
					spinner.Fail("Query failed")
				}
				return err
			}
			if spinner != nil {
				spinner.Success("Done")
			}

			if outputJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(response)
			}

			pterm.DefaultSection.Println("Executed SQL")
			pterm.Println(response.SQL)
			pterm.Println()
			return renderRecords(response.Records)
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the raw JSON response")
	return cmd
}

func renderRecords(records []map[string]any) error {
	if len(records) == 0 {
		pterm.Println("No rows returned.")
		return nil
	}

	columns := make([]string, 0, len(records[0]))
	for column := range records[0] {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	data := pterm.TableData{columns}
	for _, record := range records {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = renderCell(record[column])
		}
		data = append(data, row)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderCell(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
