package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/openspec"
	"github.com/jingkaihe/skillbox/pkg/presenter"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <change_id>",
	Short: "Archive a change and merge its spec delta into the main specs",
	Long: `Copy openspec/changes/<change_id>/specs/spec.md to
openspec/specs/<change_id>_spec.md, move the change directory under
openspec/archive/ and, with git integration, delete its feature branch.
Git problems are reported as warnings and do not undo the archive.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := openspec.NewArchiver(projectRoot()).Archive(cmd.Context(), args[0])
		exitOnError(err, "Failed to archive change proposal")

		emit(cmd, result, func() {
			presenter.Success(result.Message)
			if result.ArchivePath != "" {
				presenter.Info(fmt.Sprintf("archived to %s", result.ArchivePath))
			}
		})
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects [base_dir]",
	Short: "List OpenSpec projects under a directory",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		base := projectRoot()
		if len(args) == 1 {
			base = args[0]
		}

		projects, err := openspec.ListProjects(base)
		exitOnError(err, "Failed to list projects")

		emit(cmd, map[string]any{"success": true, "projects": projects, "base_directory": base}, func() {
			if len(projects) == 0 {
				presenter.Info("No OpenSpec projects found in " + base)
				return
			}
			for _, p := range projects {
				fmt.Printf("%-30s %s\n", p.Name, p.Root)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(projectsCmd)
}
