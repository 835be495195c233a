package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/logger"
	"github.com/jingkaihe/skillbox/pkg/openspec"
	"github.com/jingkaihe/skillbox/pkg/presenter"
	"github.com/jingkaihe/skillbox/pkg/tasks"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	DebounceTime   int
	ExitOnComplete bool
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceTime:   300,
		ExitOnComplete: false,
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

// Progress is the task count of a task list at one point in time.
type Progress struct {
	Total int
	Done  int
}

// Complete reports whether every task is checked off.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Done == p.Total
}

var watchCmd = &cobra.Command{
	Use:   "watch <change_id>",
	Short: "Report task progress of a change as its task list changes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getWatchConfigFromFlags(cmd)
		exitOnError(config.Validate(), "Invalid configuration")

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		changeID := args[0]
		exitOnError(openspec.ValidateChangeID(changeID), "Invalid change id")
		path := openspec.NewLayout(projectRoot()).TasksPath(changeID)

		report := func(p Progress) {
			presenter.Info(fmt.Sprintf("[%s] %s: %d/%d tasks done", time.Now().Format("15:04:05"), changeID, p.Done, p.Total))
			if p.Complete() {
				presenter.Success(fmt.Sprintf("All tasks for change_id '%s' have been completed.", changeID))
				if config.ExitOnComplete {
					cancel()
				}
			}
		}

		err := watchTasks(ctx, path, time.Duration(config.DebounceTime)*time.Millisecond, report)
		exitOnError(err, "Failed to watch task list")
	},
}

// watchTasks calls onChange with the initial progress of the task list at
// path and again after every debounced change to it, until ctx is done.
func watchTasks(ctx context.Context, path string, debounce time.Duration, onChange func(Progress)) error {
	progress, err := readProgress(path)
	if err != nil {
		return err
	}
	onChange(progress)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(path))
	}

	name := filepath.Base(path)
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			settle = time.After(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("file watcher error")
		case <-settle:
			settle = nil
			next, err := readProgress(path)
			if err != nil {
				logger.G(ctx).WithError(err).Debug("task list unreadable, waiting for next change")
				continue
			}
			if next != progress {
				progress = next
				onChange(progress)
			}
		}
	}
}

func readProgress(path string) (Progress, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Progress{}, errors.Wrapf(openspec.ErrNotFound, "task list %s", path)
		}
		return Progress{}, errors.Wrapf(err, "failed to read %s", path)
	}
	total, done := tasks.Stats(tasks.Parse(string(data)))
	return Progress{Total: total, Done: done}, nil
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	watchCmd.Flags().Bool("exit-on-complete", defaults.ExitOnComplete, "Exit once every task is checked off")

	rootCmd.AddCommand(watchCmd)
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()

	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounceTime
	}
	if exitOnComplete, err := cmd.Flags().GetBool("exit-on-complete"); err == nil {
		config.ExitOnComplete = exitOnComplete
	}

	return config
}
