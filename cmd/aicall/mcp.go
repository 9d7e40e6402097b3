package main

import (
	"github.com/germanamz/aicall/pkg/tools/aitools"
	"github.com/germanamz/aicall/pkg/tools/mcpserver"
	"github.com/spf13/cobra"
)

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve generate_text over MCP on stdin/stdout",
		Long: "Run a Model Context Protocol server on stdin/stdout exposing the generate_text and\n" +
			"list_providers tools. Logs go to stderr. API keys are read from the config file and\n" +
			"environment, never from tool arguments.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := mcpserver.New("aicall", version, a.log)
			srv.Register(aitools.New(a.engine(), a.v.GetString("config")).Tools())

			a.log.Info("mcp server listening on stdio")
			return srv.Serve(cmd.Context(), a.in, a.out)
		},
	}
}
