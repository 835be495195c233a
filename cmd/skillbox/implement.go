package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/implement"
	"github.com/jingkaihe/skillbox/pkg/openspec"
	"github.com/jingkaihe/skillbox/pkg/presenter"
)

// ImplementConfig holds configuration for the implement command
type ImplementConfig struct {
	Step      string
	SessionID string
}

// NewImplementConfig creates a new ImplementConfig with default values
func NewImplementConfig() *ImplementConfig {
	return &ImplementConfig{}
}

// Validate validates the ImplementConfig and returns an error if invalid
func (c *ImplementConfig) Validate() error {
	switch c.Step {
	case "", "next", "done", "reset":
	default:
		return errors.Errorf("invalid step: %s, must be one of: next, done, reset", c.Step)
	}
	if c.SessionID != "" && c.Step != "done" {
		return errors.New("--session can only be used with --step done")
	}
	return nil
}

var implementCmd = &cobra.Command{
	Use:   "implement <change_id>",
	Short: "Walk the pending tasks of a change",
	Long: `Walk the pending tasks in openspec/changes/<change_id>/tasks.md.

Without --step every task is handed out in order and checked off, printing the
instruction payload for each one.

With --step next the payload for the first pending task is printed and a
checkpoint is saved; --step done checks that task off once the work is done.
This lets an agent drive the list one task at a time across processes.
--step reset drops the outstanding task without checking it off, for when the
task was reworded or removed after it was handed out.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getImplementConfigFromFlags(cmd)
		exitOnError(config.Validate(), "Invalid configuration")

		ctx := cmd.Context()
		layout := openspec.NewLayout(projectRoot())
		changeID := args[0]

		switch config.Step {
		case "next":
			result, err := implement.NextStep(ctx, layout, changeID, implement.WithPrompts(newRenderer()))
			exitOnError(err, "Failed to issue next task")
			emit(cmd, result, func() { printStep(result) })
		case "done":
			result, err := implement.CompleteStep(ctx, layout, changeID, config.SessionID)
			exitOnError(err, "Failed to complete task")
			emit(cmd, result, func() { printStep(result) })
		case "reset":
			result, err := implement.ResetStep(ctx, layout, changeID)
			exitOnError(err, "Failed to reset step mode")
			emit(cmd, result, func() { printStep(result) })
		default:
			events := implement.Events(ctx, layout, changeID, implement.WithPrompts(newRenderer()))
			emit(cmd, events, func() { printEvents(events) })
			if last := events[len(events)-1]; last.Success != nil && !*last.Success {
				exitOnError(errors.New(last.Message), "Implementation stopped")
			}
		}
	},
}

func printStep(result *implement.StepResult) {
	if result.Payload != nil {
		presenter.Section(fmt.Sprintf("Task %d of %d: %s", result.Payload.Position, result.Payload.Total, result.Payload.Task))
		fmt.Println(result.Payload.Prompt)
		presenter.Separator()
		presenter.Info("session " + result.SessionID)
		return
	}
	presenter.Success(result.Message)
	if !result.Finished {
		presenter.Info(fmt.Sprintf("%d tasks remaining", result.Remaining))
	}
}

func printEvents(events []implement.Event) {
	for _, e := range events {
		switch {
		case e.Prompt != "":
			presenter.Section(e.Task)
			fmt.Println(e.Prompt)
		case e.Success != nil && !*e.Success:
			presenter.Warning(e.Message)
		case e.Success != nil:
			presenter.Info(e.Message)
		default:
			presenter.Success(e.Message)
		}
	}
}

func init() {
	defaults := NewImplementConfig()
	implementCmd.Flags().String("step", defaults.Step, "Drive one task at a time (next, done, reset)")
	implementCmd.Flags().String("session", defaults.SessionID, "Session id printed by --step next")

	rootCmd.AddCommand(implementCmd)
}

// getImplementConfigFromFlags extracts implement configuration from command flags
func getImplementConfigFromFlags(cmd *cobra.Command) *ImplementConfig {
	config := NewImplementConfig()

	if step, err := cmd.Flags().GetString("step"); err == nil {
		config.Step = step
	}
	if sessionID, err := cmd.Flags().GetString("session"); err == nil {
		config.SessionID = sessionID
	}

	return config
}
