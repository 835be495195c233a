package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/logger"
	"github.com/jingkaihe/skillbox/pkg/mcpserver"
	"github.com/jingkaihe/skillbox/pkg/steps"
	"github.com/jingkaihe/skillbox/pkg/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workflow steps as MCP tools over stdio",
	Long: `Start an MCP (Model Context Protocol) server on stdin and stdout that exposes
every workflow step as a tool. Logs go to stderr. The server runs until stdin
is closed or it is interrupted.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		dispatcher := steps.New(steps.WithWorkDir(projectRoot()), steps.WithPrompts(newRenderer()))
		server, err := mcpserver.New(dispatcher, version.Get().Version)
		exitOnError(err, "Failed to create MCP server")

		logger.SetLogOutput(os.Stderr)
		if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
			exitOnError(err, "MCP server stopped")
		}
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
