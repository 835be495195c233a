package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/presenter"
	"github.com/jingkaihe/skillbox/pkg/promptcheck"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Inspect prompts and prompt templates",
}

var promptAnalyzeCmd = &cobra.Command{
	Use:   "analyze <prompt...>",
	Short: "Score a prompt for a tool-using agent",
	Long: `Score a prompt against three rules: it is phrased as an action, it asks for
execution rather than an explanation, and it names what to act on.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result := promptcheck.Analyze(strings.Join(args, " "))

		emit(cmd, result, func() {
			presenter.Section("Score " + result.Score)
			fmt.Println(result.Evaluation)
			for _, s := range result.Suggestions {
				fmt.Println("  - " + s)
			}
		})
	},
}

var promptTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the prompt templates and their override directories",
	Long: `List every prompt template skillbox renders. A file named <template>.md in one
of the override directories replaces the built-in template; directories are
searched in the order shown.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		renderer := newRenderer()
		result := map[string][]string{
			"templates":     renderer.List(),
			"override_dirs": renderer.Dirs(),
		}

		emit(cmd, result, func() {
			presenter.Section("Templates")
			for _, name := range result["templates"] {
				fmt.Println("  " + name)
			}
			presenter.Section("Override directories")
			for _, dir := range result["override_dirs"] {
				fmt.Println("  " + dir)
			}
		})
	},
}

func init() {
	promptCmd.AddCommand(promptAnalyzeCmd)
	promptCmd.AddCommand(promptTemplatesCmd)
	rootCmd.AddCommand(promptCmd)
}
