package cli

import (
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newHealthCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API server is up and ready",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newAPIClient(opts)

			var health struct {
				Status  string `json:"status"`
				Service string `json:"service"`
			}
			if err := client.doJSON(cmd.Context(), http.MethodGet, "/v1/health", nil, &health); err != nil {
				pterm.Error.Printfln("Server unreachable: %v", err)
				return err
			}
			pterm.Success.Printfln("%s is %s", health.Service, health.Status)

			var ready struct {
				Status string `json:"status"`
			}
			if err := client.doJSON(cmd.Context(), http.MethodGet, "/v1/ready", nil, &ready); err != nil {
				pterm.Warning.Printfln("Readiness check failed: %v", err)
				return err
			}
			pterm.Success.Printfln("Readiness: %s", ready.Status)
			return nil
		},
	}
}
