package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/openspec"
	"github.com/jingkaihe/skillbox/pkg/presenter"
)

// InitConfig holds configuration for the init command
type InitConfig struct {
	GitEnabled bool
	BaseBranch string
}

// NewInitConfig creates a new InitConfig with default values
func NewInitConfig() *InitConfig {
	return &InitConfig{}
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an OpenSpec project",
	Long: `Create the openspec/ directory with its specs/ and changes/ folders and the
project.md and constitution.md placeholders. Existing documents are kept.
With --git, proposals are committed on a feature/<change_id> branch and the
branch is deleted when the change is archived.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getInitConfigFromFlags(cmd)

		result, err := openspec.InitProject(projectRoot(), openspec.InitOptions{
			GitEnabled: config.GitEnabled,
			BaseBranch: config.BaseBranch,
		})
		exitOnError(err, "Failed to initialize project")

		emit(cmd, result, func() {
			presenter.Success(result.Message)
			for _, path := range result.Created {
				presenter.Info(fmt.Sprintf("created %s", path))
			}
		})
	},
}

var principlesCmd = &cobra.Command{
	Use:   "principles <file>",
	Short: "Replace the project constitution",
	Long:  `Replace openspec/constitution.md with the content of <file> ("-" reads stdin).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		content := readInput(args[0])

		path, err := openspec.DefinePrinciples(projectRoot(), content)
		exitOnError(err, "Failed to update project principles")

		emit(cmd, map[string]any{"success": true, "message": "Project principles updated in " + path}, func() {
			presenter.Success("Project principles updated in " + path)
		})
	},
}

func init() {
	defaults := NewInitConfig()
	initCmd.Flags().Bool("git", defaults.GitEnabled, "Enable git integration")
	initCmd.Flags().String("base-branch", defaults.BaseBranch, "Branch to switch back to when archiving (default: main or master)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(principlesCmd)
}

// getInitConfigFromFlags extracts init configuration from command flags
func getInitConfigFromFlags(cmd *cobra.Command) *InitConfig {
	config := NewInitConfig()

	if gitEnabled, err := cmd.Flags().GetBool("git"); err == nil {
		config.GitEnabled = gitEnabled
	}
	if baseBranch, err := cmd.Flags().GetString("base-branch"); err == nil {
		config.BaseBranch = baseBranch
	}

	return config
}
