package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/openspec"
	"github.com/jingkaihe/skillbox/pkg/presenter"
)

var planCmd = &cobra.Command{
	Use:   "plan <change_id>",
	Short: "Write a plan placeholder and print the planning prompt",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openspec.NewStore(projectRoot(), newRenderer())
		result, err := store.GeneratePlan(cmd.Context(), args[0])
		exitOnError(err, "Failed to generate plan")

		emit(cmd, result, func() {
			printPrompt(result.Path, result.Created, result.Prompt)
		})
	},
}

var tasksCmd = &cobra.Command{
	Use:   "tasks <change_id>",
	Short: "Write a task list placeholder and print the breakdown prompt",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openspec.NewStore(projectRoot(), newRenderer())
		result, err := store.BreakdownTasks(cmd.Context(), args[0])
		exitOnError(err, "Failed to break down tasks")

		emit(cmd, result, func() {
			printPrompt(result.Path, result.Created, result.Prompt)
		})
	},
}

var clarifyCmd = &cobra.Command{
	Use:   "clarify <change_id>",
	Short: "Print a prompt asking clarifying questions about a proposal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openspec.NewStore(projectRoot(), newRenderer())
		result, err := store.Clarify(cmd.Context(), args[0])
		exitOnError(err, "Failed to prepare clarification prompt")

		emit(cmd, result, func() {
			fmt.Println(result.Prompt)
		})
	},
}

func printPrompt(path string, created bool, prompt string) {
	if created {
		presenter.Success("Created " + path)
	} else {
		presenter.Info("Kept existing " + path)
	}
	presenter.Section("Prompt")
	fmt.Println(prompt)
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(clarifyCmd)
}
