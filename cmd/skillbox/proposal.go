package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/openspec"
	"github.com/jingkaihe/skillbox/pkg/presenter"
)

// ProposalCreateConfig holds configuration for the proposal create command
type ProposalCreateConfig struct {
	Description string
	Force       bool
}

// NewProposalCreateConfig creates a new ProposalCreateConfig with default values
func NewProposalCreateConfig() *ProposalCreateConfig {
	return &ProposalCreateConfig{}
}

var proposalCmd = &cobra.Command{
	Use:   "proposal",
	Short: "Create and inspect change proposals",
}

var proposalCreateCmd = &cobra.Command{
	Use:   "create <change_id> [description...]",
	Short: "Create a change proposal",
	Long: `Create openspec/changes/<change_id>/ with proposal.md, tasks.md and
specs/spec.md placeholders and print the prompt asking an agent to fill them
in. The description can be given as arguments or with --description.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getProposalCreateConfigFromFlags(cmd)
		if config.Description == "" && len(args) > 1 {
			config.Description = strings.Join(args[1:], " ")
		}

		store := openspec.NewStore(projectRoot(), newRenderer())
		result, err := store.Create(cmd.Context(), openspec.CreateOptions{
			ChangeID:    args[0],
			Description: config.Description,
			Force:       config.Force,
		})
		exitOnError(err, "Failed to create change proposal")

		emit(cmd, result, func() {
			presenter.Success(fmt.Sprintf("Created change proposal at %s", result.Path))
			if result.GitWarning != "" {
				presenter.Warning("Git warning: " + result.GitWarning)
			}
			presenter.Section("Prompt")
			fmt.Println(result.Prompt)
		})
	},
}

var proposalShowCmd = &cobra.Command{
	Use:   "show <change_id>",
	Short: "Print the documents of a change proposal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openspec.NewStore(projectRoot(), nil)
		proposal, err := store.Read(args[0])
		exitOnError(err, "Failed to read change proposal")

		emit(cmd, proposal, func() {
			for _, doc := range []struct {
				title   string
				content string
			}{
				{"proposal.md", proposal.Proposal},
				{"tasks.md", proposal.Tasks},
				{"specs/spec.md", proposal.SpecDelta},
				{"plan.md", proposal.Plan},
			} {
				if doc.content == "" {
					continue
				}
				presenter.Section(doc.title)
				fmt.Println(strings.TrimRight(doc.content, "\n"))
			}
		})
	},
}

var proposalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active change proposals with task progress",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		store := openspec.NewStore(projectRoot(), nil)
		changes, err := store.List()
		exitOnError(err, "Failed to list change proposals")

		emit(cmd, changes, func() {
			if len(changes) == 0 {
				presenter.Info("No active change proposals.")
				return
			}
			for _, c := range changes {
				fmt.Printf("%-30s %d/%d tasks done\n", c.ChangeID, c.DoneTasks, c.TotalTasks)
			}
		})
	},
}

func init() {
	defaults := NewProposalCreateConfig()
	proposalCreateCmd.Flags().StringP("description", "d", defaults.Description, "Description of the proposed changes")
	proposalCreateCmd.Flags().Bool("force", defaults.Force, "Overwrite the documents of an existing proposal")

	proposalCmd.AddCommand(proposalCreateCmd)
	proposalCmd.AddCommand(proposalShowCmd)
	proposalCmd.AddCommand(proposalListCmd)
	rootCmd.AddCommand(proposalCmd)
}

// getProposalCreateConfigFromFlags extracts proposal configuration from command flags
func getProposalCreateConfigFromFlags(cmd *cobra.Command) *ProposalCreateConfig {
	config := NewProposalCreateConfig()

	if description, err := cmd.Flags().GetString("description"); err == nil {
		config.Description = description
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}

	return config
}
