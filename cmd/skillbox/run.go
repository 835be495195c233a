package main

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/presenter"
	"github.com/jingkaihe/skillbox/pkg/steps"
)

// RunConfig holds configuration for the run command
type RunConfig struct {
	Kwargs     string
	GitEnabled bool
}

// NewRunConfig creates a new RunConfig with default values
func NewRunConfig() *RunConfig {
	return &RunConfig{
		Kwargs: "{}",
	}
}

var runCmd = &cobra.Command{
	Use:   "run <step>",
	Short: "Run a workflow step with JSON keyword arguments",
	Long: `Run a named workflow step and print its result as JSON. Keyword arguments are
passed as a JSON object with --kwargs. Failures are reported in the result as
{"success": false, "message": ...}.

Run "skillbox run list" to see the available steps.`,
	Example: `  skillbox run proposal --kwargs '{"change_id": "add-login", "proposed_changes_description": "Add a login page"}'
  skillbox run implement --kwargs '{"change_id": "add-login", "mode": "next"}'`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getRunConfigFromFlags(cmd)
		dispatcher := steps.New(steps.WithWorkDir(projectRoot()), steps.WithPrompts(newRenderer()))

		if args[0] == "list" {
			names := []map[string]string{}
			for _, s := range dispatcher.Steps() {
				names = append(names, map[string]string{"step": s.Name, "description": s.Description})
			}
			exitOnError(presenter.JSON(names), "Failed to encode output")
			return
		}

		kwargs, err := parseKwargs(config.Kwargs)
		exitOnError(err, "Invalid --kwargs")
		if args[0] == "init" && config.GitEnabled {
			kwargs["git_enabled"] = true
		}

		result := dispatcher.Run(cmd.Context(), args[0], kwargs)
		exitOnError(presenter.JSON(result), "Failed to encode output")
	},
}

func parseKwargs(raw string) (map[string]any, error) {
	kwargs := map[string]any{}
	if raw == "" {
		return kwargs, nil
	}
	if err := json.Unmarshal([]byte(raw), &kwargs); err != nil {
		return nil, errors.Wrap(err, "kwargs must be a JSON object")
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return kwargs, nil
}

func init() {
	defaults := NewRunConfig()
	runCmd.Flags().String("kwargs", defaults.Kwargs, "JSON object of keyword arguments for the step")
	runCmd.Flags().Bool("git-enabled", defaults.GitEnabled, "Enable git integration (init step only)")

	rootCmd.AddCommand(runCmd)
}

// getRunConfigFromFlags extracts run configuration from command flags
func getRunConfigFromFlags(cmd *cobra.Command) *RunConfig {
	config := NewRunConfig()

	if kwargs, err := cmd.Flags().GetString("kwargs"); err == nil {
		config.Kwargs = kwargs
	}
	if gitEnabled, err := cmd.Flags().GetBool("git-enabled"); err == nil {
		config.GitEnabled = gitEnabled
	}

	return config
}
