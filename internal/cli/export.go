package cli

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <question>",
		Short: "Answer a question and save the rows to a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "csv" && format != "parquet" {
				return fmt.Errorf("unsupported format %q (want csv or parquet)", format)
			}
			if output == "" {
				output = "result." + format
			}

			question := strings.TrimSpace(strings.Join(args, " "))
			client := newAPIClient(opts)

			path := "/v1/export?format=" + url.QueryEscape(format)
			resp, err := client.do(cmd.Context(), http.MethodPost, path, map[string]string{"question": question})
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer file.Close()

			written, err := io.Copy(file, resp.Body)
			if err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			pterm.Success.Printfln("Wrote %d bytes to %s", written, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or parquet")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default result.<format>)")
	return cmd
}
