package main

import (
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/presenter"
	"github.com/jingkaihe/skillbox/pkg/scaffold"
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Generate boilerplate",
}

var scaffoldMCPToolCmd = &cobra.Command{
	Use:   "mcp-tool <tool_name> [output_dir]",
	Short: "Write a Go MCP tool stub named <tool_name>_tool.go",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		outDir := ""
		if len(args) == 2 {
			outDir = args[1]
		}

		result, err := scaffold.CreateMCPTool(args[0], outDir)
		exitOnError(err, "Failed to create MCP tool")

		emit(cmd, result, func() {
			presenter.Success("Successfully created boilerplate for tool '" + result.Name + "' at '" + result.Path + "'")
		})
	},
}

func init() {
	scaffoldCmd.AddCommand(scaffoldMCPToolCmd)
	rootCmd.AddCommand(scaffoldCmd)
}
