// Package cli implements the text2sqlctl command tree. It talks to a
// running API server over HTTP and renders results in the terminal.
package cli

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	serverURL string
	apiKey    string
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "text2sqlctl",
		Short:         "Ask a database questions in plain language",
		Long:          `text2sqlctl sends natural-language questions to a text2sql API server, which generates, validates and executes a read-only SQL statement and returns the rows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.serverURL, "server", "http://localhost:8080", "Base URL of the API server")
	root.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "API key sent as X-API-Key")

	root.AddCommand(newAskCommand(opts))
	root.AddCommand(newExportCommand(opts))
	root.AddCommand(newHealthCommand(opts))
	return root
}
